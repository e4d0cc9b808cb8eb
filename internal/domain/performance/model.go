package performance

import "time"

// Batting is one player's batting card in one match. Rows are unique on
// (MatchID, PlayerID); re-syncing a match replaces the row wholesale.
type Batting struct {
	MatchID         string
	PlayerID        string
	PlayerName      string
	Position        int
	HowOut          string
	FielderName     string
	BowlerName      string
	Runs            int
	Balls           int
	Fours           int
	Sixes           int
	NotOut          bool
	Season          int
	TeamID          string
	TeamName        string
	CompetitionType string
	MatchDate       time.Time
}

// Bowling is one player's bowling card in one match, unique on
// (MatchID, PlayerID). Overs keeps Play-Cricket's ball-count notation:
// "4.3" is 4 completed overs plus 3 balls, never a decimal.
type Bowling struct {
	MatchID         string
	PlayerID        string
	PlayerName      string
	Overs           string
	Maidens         int
	Runs            int
	Wickets         int
	Wides           int
	NoBalls         int
	Season          int
	TeamID          string
	TeamName        string
	CompetitionType string
	MatchDate       time.Time
}

// BattingAggregate is one leaderboard entry. Average is nil below three
// innings; StrikeRate is nil when no balls were recorded.
type BattingAggregate struct {
	PlayerID   string
	PlayerName string
	Innings    int
	NotOuts    int
	Runs       int
	HighScore  int
	Balls      int
	Average    *float64
	StrikeRate *float64
	Fifties    int
	Hundreds   int
}

// BowlingAggregate is one leaderboard entry. Average and StrikeRate are nil
// below sixty balls bowled (ten overs); Average additionally requires at
// least one wicket.
type BowlingAggregate struct {
	PlayerID    string
	PlayerName  string
	Matches     int
	Wickets     int
	Runs        int
	Balls       int
	Maidens     int
	Economy     *float64
	Average     *float64
	StrikeRate  *float64
	BestWickets int
}

// Filter narrows leaderboard and summary queries.
type Filter struct {
	Season           int
	TeamID           string
	CompetitionTypes []string
	IsJunior         *bool
	Limit            int
}

// PlayerSummary is a per-player career or single-season view.
type PlayerSummary struct {
	PlayerID string
	Season   *int
	Batting  BattingAggregate
	Bowling  BowlingAggregate
}

// BallsFromOvers converts an overs string in "completed.balls" notation to a
// total ball count: "4.3" means 4*6+3 = 27 balls. Malformed input counts the
// parsable portion and ignores the rest.
func BallsFromOvers(overs string) int {
	whole, part := 0, 0
	seenDot := false
	for _, r := range overs {
		switch {
		case r == '.':
			if seenDot {
				return whole*6 + part
			}
			seenDot = true
		case r >= '0' && r <= '9':
			if seenDot {
				part = part*10 + int(r-'0')
			} else {
				whole = whole*10 + int(r-'0')
			}
		default:
			return whole*6 + part
		}
	}
	return whole*6 + part
}
