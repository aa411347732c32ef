package store

import (
	"context"
	"fmt"
)

// InsertSchedule stores one airing. The insert is a no-op when the channel
// already has an airing starting at the same instant.
func (s *Store) InsertSchedule(ctx context.Context, channelID, programID int64, startDate, endDate string) (id int64, inserted bool, err error) {
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO schedules (channel_id, program_id, start_date, end_date, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		channelID, programID, startDate, endDate, timestamp(),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, true, nil
}

// UpdateScheduleEnd refreshes the end date of an existing airing. Used only
// under the "upsert" schedule policy; updated reports whether the stored end
// actually changed.
func (s *Store) UpdateScheduleEnd(ctx context.Context, channelID int64, startDate, endDate string) (updated bool, err error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE schedules SET end_date = ? WHERE channel_id = ? AND start_date = ? AND end_date <> ?`,
		endDate, channelID, startDate, endDate,
	)
	if err != nil {
		return false, fmt.Errorf("update schedule end: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ScheduleStartsByChannel returns the set of known airing start times per channel.
func (s *Store) ScheduleStartsByChannel(ctx context.Context) (map[int64]map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT channel_id, start_date FROM schedules`)
	if err != nil {
		return nil, fmt.Errorf("list schedule starts: %w", err)
	}
	defer rows.Close()

	starts := make(map[int64]map[string]struct{})
	for rows.Next() {
		var channelID int64
		var start string
		if err := rows.Scan(&channelID, &start); err != nil {
			return nil, fmt.Errorf("scan schedule start: %w", err)
		}
		set, ok := starts[channelID]
		if !ok {
			set = make(map[string]struct{})
			starts[channelID] = set
		}
		set[start] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule starts: %w", err)
	}
	return starts, nil
}

// UpcomingAirings returns stored airings starting at or after the supplied
// ISO-8601 instant, joined with program and channel metadata, ordered by
// start time. Recorded reports whether a DVR entry already exists for the
// airing's channel and start time.
func (s *Store) UpcomingAirings(ctx context.Context, fromStart string, limit int) ([]Airing, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, c.id, c.station_id, c.channel_number,
                p.title, p.description, p.genres, s.start_date, s.end_date,
                EXISTS (
                    SELECT 1 FROM recordings r
                    WHERE r.channel_id = c.id AND r.start_ts = CAST(strftime('%s', s.start_date) AS INTEGER)
                )
         FROM schedules s
         JOIN channels c ON c.id = s.channel_id
         JOIN programs p ON p.id = s.program_id
         WHERE s.start_date >= ?
         ORDER BY s.start_date, c.channel_number
         LIMIT ?`,
		fromStart, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming airings: %w", err)
	}
	defer rows.Close()

	var airings []Airing
	for rows.Next() {
		var a Airing
		if err := rows.Scan(&a.ScheduleID, &a.ChannelID, &a.StationID, &a.ChannelNumber,
			&a.Title, &a.Description, &a.Genres, &a.StartDate, &a.EndDate, &a.Recorded); err != nil {
			return nil, fmt.Errorf("scan airing: %w", err)
		}
		airings = append(airings, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate airings: %w", err)
	}
	return airings, nil
}
