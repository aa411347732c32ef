package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"overair/internal/config"
	"overair/internal/listings"
	"overair/internal/logging"
	"overair/internal/store"
	"overair/internal/tracking"
)

// Provider describes the listings service operations one sync cycle needs.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Status(ctx context.Context) ([]listings.Lineup, error)
	LineupChannels(ctx context.Context, lineupID string) ([]listings.ChannelMapping, error)
	Schedules(ctx context.Context, stationIDs []string, dates []string) ([]listings.StationSchedule, error)
	Programs(ctx context.Context, programIDs []string) ([]listings.Program, error)
}

// Orchestrator drives one end-to-end sync cycle.
type Orchestrator struct {
	cfg        *config.Config
	provider   Provider
	store      *store.Store
	reconciler *Reconciler
	tracker    tracking.Sink
	logger     *slog.Logger
	now        func() time.Time
}

// NewOrchestrator wires a sync cycle from its collaborators. tracker may be
// nil when no experiment tracking is configured.
func NewOrchestrator(cfg *config.Config, provider Provider, st *store.Store, tracker tracking.Sink, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "sync"))
	return &Orchestrator{
		cfg:        cfg,
		provider:   provider,
		store:      st,
		reconciler: NewReconciler(st, logger, SchedulePolicy(cfg.Sync.SchedulePolicy)),
		tracker:    tracker,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one sync cycle. Hard failures abort the cycle and are returned
// with the failing step named; writes committed by earlier steps are
// retained, and re-running is safe because reconciliation is idempotent. The
// partial Result is returned alongside any error.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Started: o.now()}
	logger := o.logger.With(logging.String(logging.FieldRunID, result.RunID))

	lock := flock.New(o.store.Path() + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !locked {
		return result, errors.New("another sync cycle is already running")
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := o.provider.Authenticate(ctx, o.cfg.Provider.Username, o.cfg.Provider.Password); err != nil {
		return result, fmt.Errorf("authenticate: %w", err)
	}
	logger.Debug("authenticated", logging.String(logging.FieldStep, "authenticate"))

	lineups, err := o.provider.Status(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch status: %w", err)
	}
	lineup, err := o.selectLineup(lineups, logger)
	if err != nil {
		return result, err
	}
	result.Lineup = lineup

	mappings, err := o.provider.LineupChannels(ctx, lineup)
	if err != nil {
		return result, fmt.Errorf("fetch lineup channels: %w", err)
	}
	result.Channels, err = o.reconciler.Channels(ctx, mappings)
	if err != nil {
		return result, fmt.Errorf("reconcile channels: %w", err)
	}
	logger.Info("channels reconciled",
		logging.String(logging.FieldStep, "channels"),
		logging.Int("fetched", len(mappings)),
		logging.Int("added", result.Channels.Added))

	stations := distinctStations(mappings)
	result.StationsFetched = len(stations)
	dates := scheduleDates(o.now(), o.cfg.Sync.Days)
	blocks, err := o.provider.Schedules(ctx, stations, dates)
	if err != nil {
		return result, fmt.Errorf("fetch schedules: %w", err)
	}
	result.SchedulesFetched = countAirings(blocks)

	programIDs := collectProgramIDs(blocks)
	programs, err := o.provider.Programs(ctx, programIDs)
	if err != nil {
		return result, fmt.Errorf("fetch programs: %w", err)
	}
	result.ProgramsFetched = len(programs)

	result.Programs, err = o.reconciler.Programs(ctx, programs)
	if err != nil {
		return result, fmt.Errorf("reconcile programs: %w", err)
	}
	logger.Info("programs reconciled",
		logging.String(logging.FieldStep, "programs"),
		logging.Int("fetched", len(programs)),
		logging.Int("added", result.Programs.Added),
		logging.Int("skipped_no_title", result.Programs.SkippedNoTitle))

	if o.cfg.Sync.PersistSchedules {
		result.Schedules, err = o.reconciler.Schedules(ctx, blocks)
		if err != nil {
			return result, fmt.Errorf("reconcile schedules: %w", err)
		}
		logger.Info("schedules reconciled",
			logging.String(logging.FieldStep, "schedules"),
			logging.Int("fetched", result.SchedulesFetched),
			logging.Int("added", result.Schedules.Added),
			logging.Int("unknown_stations", result.Schedules.UnknownStations))
	}

	result.Finished = o.now()
	o.report(ctx, result, logger)
	return result, nil
}

// selectLineup picks the lineup the cycle syncs. A configured lineup must
// exist on the account; otherwise the first lineup is used, and any others
// are named in a warning because multi-lineup accounts are not synced.
func (o *Orchestrator) selectLineup(lineups []listings.Lineup, logger *slog.Logger) (string, error) {
	configured := o.cfg.Provider.Lineup
	if configured != "" {
		for _, lineup := range lineups {
			if lineup.Lineup == configured {
				return configured, nil
			}
		}
		return "", fmt.Errorf("select lineup: configured lineup %q not on account", configured)
	}
	if len(lineups) > 1 {
		others := make([]string, 0, len(lineups)-1)
		for _, lineup := range lineups[1:] {
			others = append(others, lineup.Lineup)
		}
		logger.Warn("account has multiple lineups, syncing the first only",
			logging.String("lineup", lineups[0].Lineup),
			logging.Any("ignored", others))
	}
	return lineups[0].Lineup, nil
}

func (o *Orchestrator) report(ctx context.Context, result *Result, logger *slog.Logger) {
	if o.tracker == nil {
		return
	}
	err := o.tracker.LogRun(ctx, tracking.Run{
		Name: result.RunID,
		Params: map[string]string{
			"mode":              "sync",
			"lineup":            result.Lineup,
			"stations_fetched":  strconv.Itoa(result.StationsFetched),
			"programs_fetched":  strconv.Itoa(result.ProgramsFetched),
			"schedules_fetched": strconv.Itoa(result.SchedulesFetched),
		},
		Metrics: map[string]float64{
			"channels_added":   float64(result.Channels.Added),
			"programs_added":   float64(result.Programs.Added),
			"schedules_added":  float64(result.Schedules.Added),
			"soft_skips":       float64(result.Skips()),
			"duration_seconds": result.Duration().Seconds(),
		},
	})
	if err != nil {
		logger.Warn("experiment tracking failed", logging.Error(err))
	}
}

// distinctStations returns the station ids from a channel map in first-seen order.
func distinctStations(mappings []listings.ChannelMapping) []string {
	seen := make(map[string]struct{}, len(mappings))
	stations := make([]string, 0, len(mappings))
	for _, mapping := range mappings {
		if _, ok := seen[mapping.StationID]; ok {
			continue
		}
		seen[mapping.StationID] = struct{}{}
		stations = append(stations, mapping.StationID)
	}
	return stations
}

// collectProgramIDs returns the distinct program ids referenced across all
// schedule blocks, in first-seen order. A program referenced by several
// channels or airings is fetched once.
func collectProgramIDs(blocks []listings.StationSchedule) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, block := range blocks {
		for _, airing := range block.Airings {
			if airing.ProgramID == "" {
				continue
			}
			if _, ok := seen[airing.ProgramID]; ok {
				continue
			}
			seen[airing.ProgramID] = struct{}{}
			ids = append(ids, airing.ProgramID)
		}
	}
	return ids
}

// scheduleDates builds the YYYY-MM-DD list for the forward-looking window.
func scheduleDates(from time.Time, days int) []string {
	if days < 1 {
		days = 1
	}
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, from.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}

func countAirings(blocks []listings.StationSchedule) int {
	total := 0
	for _, block := range blocks {
		total += len(block.Airings)
	}
	return total
}
