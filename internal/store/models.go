package store

import "time"

// Channel maps a provider station to a local channel number.
type Channel struct {
	ID            int64
	StationID     string
	ChannelNumber string
	CreatedAt     time.Time
}

// Program holds immutable program metadata keyed by the provider's program identifier.
type Program struct {
	ID              int64
	RemoteID        string
	Title           string
	Description     string
	Genres          string // comma-delimited, provider order
	OriginalAirDate string // date-only, may be empty
	Season          *int
	Episode         *int
	CreatedAt       time.Time
}

// Schedule is one airing of a program on a channel.
type Schedule struct {
	ID        int64
	ChannelID int64
	ProgramID int64
	StartDate string // ISO-8601 with offset, as delivered by the provider
	EndDate   string
	CreatedAt time.Time
}

// Recording is a DVR entry created by the record command.
type Recording struct {
	ID        int64
	ChannelID int64
	StartTS   int64
	StopTS    int64
	Title     string
	Reason    string
	CreatedAt time.Time
}

// Airing joins a stored schedule with its channel and program for
// downstream recording decisions.
type Airing struct {
	ScheduleID    int64
	ChannelID     int64
	StationID     string
	ChannelNumber string
	Title         string
	Description   string
	Genres        string
	StartDate     string
	EndDate       string
	Recorded      bool
}

// Counts summarizes catalog row counts per table.
type Counts struct {
	Channels   int
	Programs   int
	Schedules  int
	Persons    int
	Recordings int
}
