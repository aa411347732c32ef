package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"overair/internal/listings"
	"overair/internal/logging"
	"overair/internal/store"
)

// SchedulePolicy controls how an airing already stored for a channel and
// start time is handled when it reappears in a fetch.
type SchedulePolicy string

const (
	// PolicyIgnore keeps the stored row untouched (first write wins).
	PolicyIgnore SchedulePolicy = "ignore"
	// PolicyUpsert refreshes the stored end time when the provider changed it.
	PolicyUpsert SchedulePolicy = "upsert"
)

// metadataNamespaces is the fixed preference order for season/episode
// numbering. The first namespace that carries values wins; values are never
// merged across namespaces.
var metadataNamespaces = []string{"Gracenote", "TMS"}

// Reconciler merges freshly fetched remote entities into the local catalog
// without creating duplicates. All writes are inserts; see the package
// documentation for the snapshot-diff-insert discipline.
type Reconciler struct {
	store  *store.Store
	logger *slog.Logger
	policy SchedulePolicy
}

// NewReconciler creates a reconciler writing into st.
func NewReconciler(st *store.Store, logger *slog.Logger, policy SchedulePolicy) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if policy == "" {
		policy = PolicyIgnore
	}
	return &Reconciler{store: st, logger: logger, policy: policy}
}

// Channels inserts every fetched station mapping whose station is not yet
// stored. Duplicate stations inside the batch resolve first-seen-wins.
func (r *Reconciler) Channels(ctx context.Context, fetched []listings.ChannelMapping) (ChannelStats, error) {
	var stats ChannelStats

	known, err := r.store.StationChannels(ctx)
	if err != nil {
		return stats, fmt.Errorf("load channel snapshot: %w", err)
	}

	for _, mapping := range fetched {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if _, ok := known[mapping.StationID]; ok {
			stats.Duplicates++
			continue
		}
		id, inserted, err := r.store.InsertChannel(ctx, mapping.StationID, mapping.Channel)
		if err != nil {
			return stats, err
		}
		if !inserted {
			stats.Duplicates++
			continue
		}
		known[mapping.StationID] = id
		stats.Added++
	}
	return stats, nil
}

// Programs inserts every fetched program whose remote identifier is not yet
// stored. Records without a usable title are dropped, not failed; this is a
// validity rule of the catalog, and the skip is counted.
func (r *Reconciler) Programs(ctx context.Context, fetched []listings.Program) (ProgramStats, error) {
	var stats ProgramStats

	known, err := r.store.ProgramRemoteIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("load program snapshot: %w", err)
	}

	for _, remote := range fetched {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if _, ok := known[remote.ProgramID]; ok {
			stats.Duplicates++
			continue
		}

		title, ok := programTitle(remote)
		if !ok {
			stats.SkippedNoTitle++
			r.logger.Debug("program has no title, skipping",
				logging.String(logging.FieldProgram, remote.ProgramID))
			continue
		}

		season, episode := seasonEpisode(remote)
		program := &store.Program{
			RemoteID:        remote.ProgramID,
			Title:           title,
			Description:     programDescription(remote),
			Genres:          strings.Join(remote.Genres, ","),
			OriginalAirDate: strings.TrimSpace(remote.OriginalAirDate),
			Season:          season,
			Episode:         episode,
		}
		id, inserted, err := r.store.InsertProgram(ctx, program)
		if err != nil {
			return stats, err
		}
		if !inserted {
			stats.Duplicates++
			continue
		}
		known[remote.ProgramID] = id
		stats.Added++
	}
	return stats, nil
}

// Schedules inserts every fetched airing not yet stored for its channel and
// start time. Blocks for stations unknown locally are skipped with a
// diagnostic, never failed. Airings referencing programs that were not
// stored (typically dropped by the title rule) are skipped the same way.
func (r *Reconciler) Schedules(ctx context.Context, fetched []listings.StationSchedule) (ScheduleStats, error) {
	var stats ScheduleStats

	stations, err := r.store.StationChannels(ctx)
	if err != nil {
		return stats, fmt.Errorf("load channel snapshot: %w", err)
	}
	programs, err := r.store.ProgramRemoteIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("load program snapshot: %w", err)
	}
	starts, err := r.store.ScheduleStartsByChannel(ctx)
	if err != nil {
		return stats, fmt.Errorf("load schedule snapshot: %w", err)
	}

	for _, block := range fetched {
		channelID, ok := stations[block.StationID]
		if !ok {
			stats.UnknownStations++
			r.logger.Warn("schedule block for unknown station, skipping",
				logging.String(logging.FieldStation, block.StationID),
				logging.Int("airings", len(block.Airings)))
			continue
		}

		knownStarts, ok := starts[channelID]
		if !ok {
			knownStarts = make(map[string]struct{})
			starts[channelID] = knownStarts
		}

		for _, airing := range block.Airings {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			start := strings.TrimSpace(airing.AirDateTime)
			if start == "" {
				continue
			}
			end := airingEnd(start, airing.Duration)

			if _, exists := knownStarts[start]; exists {
				if r.policy == PolicyUpsert {
					updated, err := r.store.UpdateScheduleEnd(ctx, channelID, start, end)
					if err != nil {
						return stats, err
					}
					if updated {
						stats.Refreshed++
						continue
					}
				}
				stats.Duplicates++
				continue
			}

			programID, ok := programs[airing.ProgramID]
			if !ok {
				stats.UnknownPrograms++
				r.logger.Debug("airing references unknown program, skipping",
					logging.String(logging.FieldStation, block.StationID),
					logging.String(logging.FieldProgram, airing.ProgramID))
				continue
			}

			_, inserted, err := r.store.InsertSchedule(ctx, channelID, programID, start, end)
			if err != nil {
				return stats, err
			}
			if !inserted {
				stats.Duplicates++
				continue
			}
			knownStarts[start] = struct{}{}
			stats.Added++
		}
	}
	return stats, nil
}

// programTitle applies the title-validity rule: the first entry of the titles
// list must carry a non-empty title.
func programTitle(p listings.Program) (string, bool) {
	if len(p.Titles) == 0 {
		return "", false
	}
	title := strings.TrimSpace(p.Titles[0].Title120)
	if title == "" {
		return "", false
	}
	return title, true
}

// programDescription prefers the long-form description over the short form
// and defaults to empty.
func programDescription(p listings.Program) string {
	if len(p.Descriptions.Description1000) > 0 {
		return strings.TrimSpace(p.Descriptions.Description1000[0].Description)
	}
	if len(p.Descriptions.Description100) > 0 {
		return strings.TrimSpace(p.Descriptions.Description100[0].Description)
	}
	return ""
}

// seasonEpisode scans the metadata list for season/episode numbering,
// checking namespaces in fixed preference order. The first namespace with
// values wins; namespaces are never merged.
func seasonEpisode(p listings.Program) (*int, *int) {
	for _, namespace := range metadataNamespaces {
		for _, entry := range p.Metadata {
			meta, ok := entry[namespace]
			if !ok {
				continue
			}
			if meta.Season == 0 && meta.Episode == 0 {
				continue
			}
			season, episode := meta.Season, meta.Episode
			return &season, &episode
		}
	}
	return nil, nil
}

// airingEnd computes the airing end from its duration. When the duration is
// missing or the start does not parse, the start doubles as the end.
func airingEnd(start string, durationSeconds int) string {
	if durationSeconds <= 0 {
		return start
	}
	ts, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return start
	}
	return ts.Add(time.Duration(durationSeconds) * time.Second).UTC().Format(time.RFC3339)
}
