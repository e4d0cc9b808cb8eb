package postgres

import "time"

type battingTableModel struct {
	MatchID         string    `db:"match_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Position        int       `db:"position"`
	HowOut          string    `db:"how_out"`
	FielderName     string    `db:"fielder_name"`
	BowlerName      string    `db:"bowler_name"`
	Runs            int       `db:"runs"`
	Balls           int       `db:"balls"`
	Fours           int       `db:"fours"`
	Sixes           int       `db:"sixes"`
	NotOut          bool      `db:"not_out"`
	Season          int       `db:"season"`
	TeamID          string    `db:"team_id"`
	TeamName        string    `db:"team_name"`
	CompetitionType string    `db:"competition_type"`
	MatchDate       time.Time `db:"match_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type battingInsertModel struct {
	MatchID         string    `db:"match_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Position        int       `db:"position"`
	HowOut          string    `db:"how_out"`
	FielderName     string    `db:"fielder_name"`
	BowlerName      string    `db:"bowler_name"`
	Runs            int       `db:"runs"`
	Balls           int       `db:"balls"`
	Fours           int       `db:"fours"`
	Sixes           int       `db:"sixes"`
	NotOut          bool      `db:"not_out"`
	Season          int       `db:"season"`
	TeamID          string    `db:"team_id"`
	TeamName        string    `db:"team_name"`
	CompetitionType string    `db:"competition_type"`
	MatchDate       time.Time `db:"match_date"`
}

// balls_bowled is derived from the overs string at write time so aggregates
// can SUM an integer column instead of re-parsing notation in SQL.
type bowlingTableModel struct {
	MatchID         string    `db:"match_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Overs           string    `db:"overs"`
	BallsBowled     int       `db:"balls_bowled"`
	Maidens         int       `db:"maidens"`
	Runs            int       `db:"runs"`
	Wickets         int       `db:"wickets"`
	Wides           int       `db:"wides"`
	NoBalls         int       `db:"no_balls"`
	Season          int       `db:"season"`
	TeamID          string    `db:"team_id"`
	TeamName        string    `db:"team_name"`
	CompetitionType string    `db:"competition_type"`
	MatchDate       time.Time `db:"match_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type bowlingInsertModel struct {
	MatchID         string    `db:"match_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Overs           string    `db:"overs"`
	BallsBowled     int       `db:"balls_bowled"`
	Maidens         int       `db:"maidens"`
	Runs            int       `db:"runs"`
	Wickets         int       `db:"wickets"`
	Wides           int       `db:"wides"`
	NoBalls         int       `db:"no_balls"`
	Season          int       `db:"season"`
	TeamID          string    `db:"team_id"`
	TeamName        string    `db:"team_name"`
	CompetitionType string    `db:"competition_type"`
	MatchDate       time.Time `db:"match_date"`
}

type battingAggRow struct {
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	Innings    int    `db:"innings"`
	NotOuts    int    `db:"not_outs"`
	Runs       int    `db:"runs"`
	HighScore  int    `db:"high_score"`
	Balls      int    `db:"balls"`
	Fifties    int    `db:"fifties"`
	Hundreds   int    `db:"hundreds"`
}

type bowlingAggRow struct {
	PlayerID    string `db:"player_id"`
	PlayerName  string `db:"player_name"`
	Matches     int    `db:"matches"`
	Wickets     int    `db:"wickets"`
	Runs        int    `db:"runs"`
	Balls       int    `db:"balls"`
	Maidens     int    `db:"maidens"`
	BestWickets int    `db:"best_wickets"`
}

type unlinkedNameRow struct {
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
}
