package sync

import "time"

// ChannelStats counts the outcome of one channel reconciliation pass.
type ChannelStats struct {
	Added      int
	Duplicates int
}

// ProgramStats counts the outcome of one program reconciliation pass.
type ProgramStats struct {
	Added      int
	Duplicates int
	// SkippedNoTitle counts records dropped by the title-validity rule.
	SkippedNoTitle int
}

// ScheduleStats counts the outcome of one schedule reconciliation pass.
type ScheduleStats struct {
	Added      int
	Duplicates int
	// Refreshed counts end-time updates applied under the upsert policy.
	Refreshed int
	// UnknownStations counts whole blocks skipped because the station has no
	// local channel.
	UnknownStations int
	// UnknownPrograms counts airings skipped because the referenced program
	// was never stored (usually dropped by the title-validity rule).
	UnknownPrograms int
}

// Result summarizes one sync cycle.
type Result struct {
	RunID    string
	Lineup   string
	Started  time.Time
	Finished time.Time

	StationsFetched  int
	SchedulesFetched int
	ProgramsFetched  int

	Channels  ChannelStats
	Programs  ProgramStats
	Schedules ScheduleStats
}

// Duration returns the wall-clock time the cycle took.
func (r *Result) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Skips returns the total number of soft skips in the cycle.
func (r *Result) Skips() int {
	return r.Programs.SkippedNoTitle + r.Schedules.UnknownStations + r.Schedules.UnknownPrograms
}
