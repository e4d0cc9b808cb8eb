package usecase

import "time"

// Match lifecycle statuses after provider normalization. Upstream wording
// varies ("New", "In Progress", "Complete", ...), so raw values never cross
// this boundary.
const (
	MatchStatusNotStarted = "not_started"
	MatchStatusInProgress = "in_progress"
	MatchStatusCompleted  = "completed"
)

// ExternalMatchSummary is one row of the provider's season match listing.
// The competition type and date here are authoritative: the detail payload
// may omit both.
type ExternalMatchSummary struct {
	MatchID         string
	Status          string
	MatchDate       time.Time
	CompetitionType string
	CompetitionName string
	HomeClubName    string
	HomeTeamName    string
	HomeTeamID      string
	AwayClubName    string
	AwayTeamName    string
	AwayTeamID      string
	GroundName      string
}

// ExternalResultSummary is the outcome of a completed match without the
// full scorecard.
type ExternalResultSummary struct {
	MatchID           string
	ResultCode        string
	ResultDescription string
	ResultAppliedTo   string
	Toss              string
	BattedFirst       string
}

// ExternalMatchDetail is the full scorecard for one match.
type ExternalMatchDetail struct {
	MatchID           string
	Status            string
	MatchDate         time.Time
	Toss              string
	ResultCode        string
	ResultDescription string
	ResultAppliedTo   string
	Innings           []ExternalInnings
}

// ExternalInnings keeps overs in overs.balls notation ("45.2"), never
// decimal overs.
type ExternalInnings struct {
	InningsNumber   int
	TeamBattingID   string
	TeamBattingName string
	Runs            int
	Wickets         int
	Overs           string
	Declared        bool
	Extras          ExternalExtras
	Batting         []ExternalBattingLine
	Bowling         []ExternalBowlingLine
	FallOfWickets   []ExternalFallOfWicket
}

type ExternalExtras struct {
	Byes      int
	LegByes   int
	Wides     int
	NoBalls   int
	Penalties int
}

type ExternalBattingLine struct {
	Position    int
	PlayerID    string
	PlayerName  string
	HowOut      string
	FielderID   string
	FielderName string
	BowlerID    string
	BowlerName  string
	Runs        int
	Balls       int
	Fours       int
	Sixes       int
}

type ExternalBowlingLine struct {
	PlayerID   string
	PlayerName string
	Overs      string
	Maidens    int
	Runs       int
	Wickets    int
	Wides      int
	NoBalls    int
}

type ExternalFallOfWicket struct {
	Runs          int
	WicketsFallen int
	PlayerID      string
	PlayerName    string
}

// ExternalLeagueTableRow is one position in a division table. Columns beyond
// the common ones land in Values keyed by the table heading.
type ExternalLeagueTableRow struct {
	Position int
	TeamID   string
	TeamName string
	Played   int
	Won      int
	Drawn    int
	Lost     int
	Points   int
	Values   map[string]string
}

type ExternalLeagueTable struct {
	DivisionID string
	Name       string
	Rows       []ExternalLeagueTableRow
}
