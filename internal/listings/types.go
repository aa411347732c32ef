package listings

// Lineup is a provider-defined grouping of channels available to an account.
type Lineup struct {
	Lineup    string `json:"lineup"`
	Name      string `json:"name"`
	Transport string `json:"transport"`
	Location  string `json:"location"`
}

// ChannelMapping pairs a station identifier with its local channel number.
type ChannelMapping struct {
	StationID string `json:"stationID"`
	Channel   string `json:"channel"`
}

// StationSchedule is the schedule block the service returns for one station.
type StationSchedule struct {
	StationID string   `json:"stationID"`
	Airings   []Airing `json:"programs"`
}

// Airing is one scheduled broadcast of a program on a station.
type Airing struct {
	ProgramID   string `json:"programID"`
	AirDateTime string `json:"airDateTime"`
	Duration    int    `json:"duration"` // seconds; 0 when the service omits it
}

// Title is one entry in a program's titles list.
type Title struct {
	Title120 string `json:"title120"`
}

// Description is one entry in a program's description lists.
type Description struct {
	Language    string `json:"descriptionLanguage"`
	Description string `json:"description"`
}

// Descriptions groups the long-form and short-form description variants.
type Descriptions struct {
	Description1000 []Description `json:"description1000"`
	Description100  []Description `json:"description100"`
}

// EpisodeMetadata carries season/episode numbering inside a metadata namespace.
type EpisodeMetadata struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// Program is the detail record the service returns per program identifier.
// Metadata entries are keyed by provider namespace (e.g. "Gracenote").
type Program struct {
	ProgramID       string                       `json:"programID"`
	Titles          []Title                      `json:"titles"`
	Descriptions    Descriptions                 `json:"descriptions"`
	Genres          []string                     `json:"genres"`
	OriginalAirDate string                       `json:"originalAirDate"`
	Metadata        []map[string]EpisodeMetadata `json:"metadata"`
}

type tokenResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type statusResponse struct {
	Code    int      `json:"code"`
	Lineups []Lineup `json:"lineups"`
}

type lineupResponse struct {
	Map []ChannelMapping `json:"map"`
}

type scheduleRequest struct {
	StationID string   `json:"stationID"`
	Date      []string `json:"date"`
}
