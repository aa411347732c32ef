package store_test

import (
	"context"
	"testing"
	"time"

	"overair/internal/store"
	"overair/internal/testsupport"
)

func TestInsertChannelIgnoresDuplicatePair(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	id, inserted, err := st.InsertChannel(ctx, "1001", "7.1")
	if err != nil {
		t.Fatalf("InsertChannel: %v", err)
	}
	if !inserted || id == 0 {
		t.Fatalf("first insert: id=%d inserted=%v, want new row", id, inserted)
	}

	_, inserted, err = st.InsertChannel(ctx, "1001", "7.1")
	if err != nil {
		t.Fatalf("InsertChannel duplicate: %v", err)
	}
	if inserted {
		t.Fatal("duplicate station/channel pair was inserted")
	}

	// Same station on a different channel number is a distinct row.
	_, inserted, err = st.InsertChannel(ctx, "1001", "7.2")
	if err != nil {
		t.Fatalf("InsertChannel second number: %v", err)
	}
	if !inserted {
		t.Fatal("station with new channel number was not inserted")
	}
}

func TestStationChannelsEarliestRowWins(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	testsupport.MustInsertChannel(t, st, "1001", "7.2")
	other := testsupport.MustInsertChannel(t, st, "1002", "8.1")

	stations, err := st.StationChannels(ctx)
	if err != nil {
		t.Fatalf("StationChannels: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("len(stations) = %d, want 2", len(stations))
	}
	if stations["1001"] != first {
		t.Fatalf("station 1001 maps to %d, want earliest row %d", stations["1001"], first)
	}
	if stations["1002"] != other {
		t.Fatalf("station 1002 maps to %d, want %d", stations["1002"], other)
	}
}

func TestInsertProgramIgnoresDuplicateRemoteID(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	season, episode := 2, 5
	id, inserted, err := st.InsertProgram(ctx, &store.Program{
		RemoteID:        "EP000000010001",
		Title:           "Nova",
		Description:     "Science documentary",
		Genres:          "Documentary,Science",
		OriginalAirDate: "2024-03-01",
		Season:          &season,
		Episode:         &episode,
	})
	if err != nil {
		t.Fatalf("InsertProgram: %v", err)
	}
	if !inserted {
		t.Fatal("first insert reported not inserted")
	}

	// A second insert with different attributes must not touch the stored row.
	_, inserted, err = st.InsertProgram(ctx, &store.Program{
		RemoteID: "EP000000010001",
		Title:    "Renamed",
	})
	if err != nil {
		t.Fatalf("InsertProgram duplicate: %v", err)
	}
	if inserted {
		t.Fatal("duplicate remote id was inserted")
	}

	stored, err := st.GetProgramByRemoteID(ctx, "EP000000010001")
	if err != nil {
		t.Fatalf("GetProgramByRemoteID: %v", err)
	}
	if stored == nil || stored.ID != id {
		t.Fatalf("stored = %+v, want id %d", stored, id)
	}
	if stored.Title != "Nova" {
		t.Fatalf("title = %q, want original attributes preserved", stored.Title)
	}
	if stored.Season == nil || *stored.Season != 2 || stored.Episode == nil || *stored.Episode != 5 {
		t.Fatalf("season/episode = %v/%v, want 2/5", stored.Season, stored.Episode)
	}
}

func TestGetProgramByRemoteIDMissingReturnsNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	stored, err := st.GetProgramByRemoteID(context.Background(), "EP-missing")
	if err != nil {
		t.Fatalf("GetProgramByRemoteID: %v", err)
	}
	if stored != nil {
		t.Fatalf("stored = %+v, want nil", stored)
	}
}

func TestInsertScheduleIgnoresDuplicateStart(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	programID := testsupport.MustInsertProgram(t, st, "EP1", "Nova")
	otherProgram := testsupport.MustInsertProgram(t, st, "EP2", "Frontline")

	start := "2026-08-29T01:00:00Z"
	_, inserted, err := st.InsertSchedule(ctx, channelID, programID, start, "2026-08-29T02:00:00Z")
	if err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}
	if !inserted {
		t.Fatal("first schedule insert reported not inserted")
	}

	// Same channel and start with a different program is still a duplicate.
	_, inserted, err = st.InsertSchedule(ctx, channelID, otherProgram, start, "2026-08-29T03:00:00Z")
	if err != nil {
		t.Fatalf("InsertSchedule duplicate: %v", err)
	}
	if inserted {
		t.Fatal("duplicate channel/start was inserted")
	}

	starts, err := st.ScheduleStartsByChannel(ctx)
	if err != nil {
		t.Fatalf("ScheduleStartsByChannel: %v", err)
	}
	if _, ok := starts[channelID][start]; !ok {
		t.Fatalf("starts = %v, want %q under channel %d", starts, start, channelID)
	}
}

func TestUpdateScheduleEndOnlyWhenChanged(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	programID := testsupport.MustInsertProgram(t, st, "EP1", "Nova")
	start := "2026-08-29T01:00:00Z"
	if _, _, err := st.InsertSchedule(ctx, channelID, programID, start, "2026-08-29T02:00:00Z"); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	updated, err := st.UpdateScheduleEnd(ctx, channelID, start, "2026-08-29T02:30:00Z")
	if err != nil {
		t.Fatalf("UpdateScheduleEnd: %v", err)
	}
	if !updated {
		t.Fatal("changed end date reported not updated")
	}

	updated, err = st.UpdateScheduleEnd(ctx, channelID, start, "2026-08-29T02:30:00Z")
	if err != nil {
		t.Fatalf("UpdateScheduleEnd repeat: %v", err)
	}
	if updated {
		t.Fatal("unchanged end date reported updated")
	}
}

func TestUpcomingAiringsFlagsRecordedEntries(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	first := testsupport.MustInsertProgram(t, st, "EP1", "Nova")
	second := testsupport.MustInsertProgram(t, st, "EP2", "Frontline")

	startA := "2026-08-29T01:00:00Z"
	startB := "2026-08-29T02:00:00Z"
	if _, _, err := st.InsertSchedule(ctx, channelID, first, startA, "2026-08-29T02:00:00Z"); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}
	if _, _, err := st.InsertSchedule(ctx, channelID, second, startB, "2026-08-29T03:00:00Z"); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	startATime, err := time.Parse(time.RFC3339, startA)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	inserted, err := st.InsertRecording(ctx, &store.Recording{
		ChannelID: channelID,
		StartTS:   startATime.Unix(),
		StopTS:    startATime.Add(time.Hour).Unix(),
		Title:     "Nova",
		Reason:    "yes, matches criteria",
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}
	if !inserted {
		t.Fatal("recording insert reported not inserted")
	}

	airings, err := st.UpcomingAirings(ctx, "2026-08-29T00:00:00Z", 10)
	if err != nil {
		t.Fatalf("UpcomingAirings: %v", err)
	}
	if len(airings) != 2 {
		t.Fatalf("len(airings) = %d, want 2", len(airings))
	}
	if airings[0].StartDate != startA || !airings[0].Recorded {
		t.Fatalf("first airing = %+v, want recorded %s", airings[0], startA)
	}
	if airings[1].StartDate != startB || airings[1].Recorded {
		t.Fatalf("second airing = %+v, want unrecorded %s", airings[1], startB)
	}
	if airings[0].Title != "Nova" || airings[1].Title != "Frontline" {
		t.Fatalf("titles = %q/%q", airings[0].Title, airings[1].Title)
	}
}

func TestUpcomingAiringsCutoffExcludesPast(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	programID := testsupport.MustInsertProgram(t, st, "EP1", "Nova")
	if _, _, err := st.InsertSchedule(ctx, channelID, programID, "2026-08-28T23:00:00Z", "2026-08-29T00:00:00Z"); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	airings, err := st.UpcomingAirings(ctx, "2026-08-29T00:00:00Z", 10)
	if err != nil {
		t.Fatalf("UpcomingAirings: %v", err)
	}
	if len(airings) != 0 {
		t.Fatalf("len(airings) = %d, want 0", len(airings))
	}
}

func TestInsertRecordingIgnoresDuplicate(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	rec := &store.Recording{ChannelID: channelID, StartTS: 1_790_000_000, StopTS: 1_790_003_600, Title: "Nova"}

	inserted, err := st.InsertRecording(ctx, rec)
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}
	if !inserted {
		t.Fatal("first recording insert reported not inserted")
	}

	inserted, err = st.InsertRecording(ctx, rec)
	if err != nil {
		t.Fatalf("InsertRecording duplicate: %v", err)
	}
	if inserted {
		t.Fatal("duplicate recording was inserted")
	}
}

func TestCounts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	channelID := testsupport.MustInsertChannel(t, st, "1001", "7.1")
	programID := testsupport.MustInsertProgram(t, st, "EP1", "Nova")
	if _, _, err := st.InsertSchedule(ctx, channelID, programID, "2026-08-29T01:00:00Z", "2026-08-29T02:00:00Z"); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Channels != 1 || counts.Programs != 1 || counts.Schedules != 1 {
		t.Fatalf("counts = %+v, want 1/1/1", counts)
	}
	if counts.Recordings != 0 {
		t.Fatalf("recordings = %d, want 0", counts.Recordings)
	}
}

func TestOpenIsIdempotentAcrossReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.MustInsertChannel(t, st, "1001", "7.1")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	channels, err := reopened.ListChannels(context.Background())
	if err != nil {
		t.Fatalf("ListChannels: %v", err)
	}
	if len(channels) != 1 || channels[0].StationID != "1001" {
		t.Fatalf("channels = %+v, want the row from the first session", channels)
	}
}
