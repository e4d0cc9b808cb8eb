package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	qb "github.com/oakhurst-cc/playcricket-stats/internal/platform/querybuilder"
)

type PerformanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// UpsertMatch clears both cards for the match before reinserting, so players
// dropped from a corrected scorecard do not linger.
func (r *PerformanceRepository) UpsertMatch(ctx context.Context, matchID string, batting []performance.Batting, bowling []performance.Bowling) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert match performances: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearQuery = `
DELETE FROM %s
WHERE match_id = :match_id`
	for _, table := range []string{"match_performance_batting", "match_performance_bowling"} {
		clearSQL, clearArgs, err := sqlx.Named(fmt.Sprintf(clearQuery, table), map[string]any{
			"match_id": matchID,
		})
		if err != nil {
			return fmt.Errorf("bind clear %s query: %w", table, err)
		}
		clearSQL = tx.Rebind(clearSQL)
		if _, err := tx.ExecContext(ctx, clearSQL, clearArgs...); err != nil {
			return fmt.Errorf("clear %s for match=%s: %w", table, matchID, err)
		}
	}

	for _, card := range batting {
		insertModel := battingInsertModel{
			MatchID:         matchID,
			PlayerID:        card.PlayerID,
			PlayerName:      card.PlayerName,
			Position:        card.Position,
			HowOut:          card.HowOut,
			FielderName:     card.FielderName,
			BowlerName:      card.BowlerName,
			Runs:            card.Runs,
			Balls:           card.Balls,
			Fours:           card.Fours,
			Sixes:           card.Sixes,
			NotOut:          card.NotOut,
			Season:          card.Season,
			TeamID:          card.TeamID,
			TeamName:        card.TeamName,
			CompetitionType: card.CompetitionType,
			MatchDate:       card.MatchDate,
		}
		query, args, err := qb.InsertModel("match_performance_batting", insertModel, `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    position = EXCLUDED.position,
    how_out = EXCLUDED.how_out,
    fielder_name = EXCLUDED.fielder_name,
    bowler_name = EXCLUDED.bowler_name,
    runs = EXCLUDED.runs,
    balls = EXCLUDED.balls,
    fours = EXCLUDED.fours,
    sixes = EXCLUDED.sixes,
    not_out = EXCLUDED.not_out,
    season = EXCLUDED.season,
    team_id = EXCLUDED.team_id,
    team_name = EXCLUDED.team_name,
    competition_type = EXCLUDED.competition_type,
    match_date = EXCLUDED.match_date,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert batting card query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert batting card match=%s player=%s: %w", matchID, card.PlayerID, err)
		}
	}

	for _, card := range bowling {
		insertModel := bowlingInsertModel{
			MatchID:         matchID,
			PlayerID:        card.PlayerID,
			PlayerName:      card.PlayerName,
			Overs:           card.Overs,
			BallsBowled:     performance.BallsFromOvers(card.Overs),
			Maidens:         card.Maidens,
			Runs:            card.Runs,
			Wickets:         card.Wickets,
			Wides:           card.Wides,
			NoBalls:         card.NoBalls,
			Season:          card.Season,
			TeamID:          card.TeamID,
			TeamName:        card.TeamName,
			CompetitionType: card.CompetitionType,
			MatchDate:       card.MatchDate,
		}
		query, args, err := qb.InsertModel("match_performance_bowling", insertModel, `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    overs = EXCLUDED.overs,
    balls_bowled = EXCLUDED.balls_bowled,
    maidens = EXCLUDED.maidens,
    runs = EXCLUDED.runs,
    wickets = EXCLUDED.wickets,
    wides = EXCLUDED.wides,
    no_balls = EXCLUDED.no_balls,
    season = EXCLUDED.season,
    team_id = EXCLUDED.team_id,
    team_name = EXCLUDED.team_name,
    competition_type = EXCLUDED.competition_type,
    match_date = EXCLUDED.match_date,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert bowling card query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert bowling card match=%s player=%s: %w", matchID, card.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert match performances tx: %w", err)
	}
	return nil
}

func (r *PerformanceRepository) BattingLeaderboard(ctx context.Context, filter performance.Filter) ([]performance.BattingAggregate, error) {
	builder := qb.Select(
		"b.player_id",
		"MAX(b.player_name) AS player_name",
		"COUNT(1) AS innings",
		"COALESCE(SUM(CASE WHEN b.not_out THEN 1 ELSE 0 END), 0) AS not_outs",
		"COALESCE(SUM(b.runs), 0) AS runs",
		"COALESCE(MAX(b.runs), 0) AS high_score",
		"COALESCE(SUM(b.balls), 0) AS balls",
		"COALESCE(SUM(CASE WHEN b.runs >= 50 AND b.runs < 100 THEN 1 ELSE 0 END), 0) AS fifties",
		"COALESCE(SUM(CASE WHEN b.runs >= 100 THEN 1 ELSE 0 END), 0) AS hundreds",
	).From(leaderboardFrom("match_performance_batting b", filter)).
		Where(leaderboardConditions("b", filter)...).
		GroupBy("b.player_id").
		OrderBy("runs DESC", "b.player_id").
		Limit(filter.Limit)

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build batting leaderboard query: %w", err)
	}

	var rows []battingAggRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list batting leaderboard: %w", err)
	}

	out := make([]performance.BattingAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, finalizedBatting(row))
	}
	return out, nil
}

func (r *PerformanceRepository) BowlingLeaderboard(ctx context.Context, filter performance.Filter) ([]performance.BowlingAggregate, error) {
	builder := qb.Select(
		"b.player_id",
		"MAX(b.player_name) AS player_name",
		"COUNT(1) AS matches",
		"COALESCE(SUM(b.wickets), 0) AS wickets",
		"COALESCE(SUM(b.runs), 0) AS runs",
		"COALESCE(SUM(b.balls_bowled), 0) AS balls",
		"COALESCE(SUM(b.maidens), 0) AS maidens",
		"COALESCE(MAX(b.wickets), 0) AS best_wickets",
	).From(leaderboardFrom("match_performance_bowling b", filter)).
		Where(leaderboardConditions("b", filter)...).
		GroupBy("b.player_id").
		OrderBy("wickets DESC", "runs ASC", "b.player_id").
		Limit(filter.Limit)

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build bowling leaderboard query: %w", err)
	}

	var rows []bowlingAggRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bowling leaderboard: %w", err)
	}

	out := make([]performance.BowlingAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, finalizedBowling(row))
	}
	return out, nil
}

func (r *PerformanceRepository) PlayerBatting(ctx context.Context, playerID string, season *int) (performance.BattingAggregate, error) {
	conditions := []qb.Condition{qb.Eq("b.player_id", playerID)}
	if season != nil {
		conditions = append(conditions, qb.Eq("b.season", *season))
	}

	query, args, err := qb.Select(
		"COALESCE(MAX(b.player_id), '') AS player_id",
		"COALESCE(MAX(b.player_name), '') AS player_name",
		"COUNT(1) AS innings",
		"COALESCE(SUM(CASE WHEN b.not_out THEN 1 ELSE 0 END), 0) AS not_outs",
		"COALESCE(SUM(b.runs), 0) AS runs",
		"COALESCE(MAX(b.runs), 0) AS high_score",
		"COALESCE(SUM(b.balls), 0) AS balls",
		"COALESCE(SUM(CASE WHEN b.runs >= 50 AND b.runs < 100 THEN 1 ELSE 0 END), 0) AS fifties",
		"COALESCE(SUM(CASE WHEN b.runs >= 100 THEN 1 ELSE 0 END), 0) AS hundreds",
	).From("match_performance_batting b").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return performance.BattingAggregate{}, fmt.Errorf("build player batting query: %w", err)
	}

	var row battingAggRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return performance.BattingAggregate{}, fmt.Errorf("get player batting: %w", err)
	}
	row.PlayerID = playerID
	return finalizedBatting(row), nil
}

func (r *PerformanceRepository) PlayerBowling(ctx context.Context, playerID string, season *int) (performance.BowlingAggregate, error) {
	conditions := []qb.Condition{qb.Eq("b.player_id", playerID)}
	if season != nil {
		conditions = append(conditions, qb.Eq("b.season", *season))
	}

	query, args, err := qb.Select(
		"COALESCE(MAX(b.player_id), '') AS player_id",
		"COALESCE(MAX(b.player_name), '') AS player_name",
		"COUNT(1) AS matches",
		"COALESCE(SUM(b.wickets), 0) AS wickets",
		"COALESCE(SUM(b.runs), 0) AS runs",
		"COALESCE(SUM(b.balls_bowled), 0) AS balls",
		"COALESCE(SUM(b.maidens), 0) AS maidens",
		"COALESCE(MAX(b.wickets), 0) AS best_wickets",
	).From("match_performance_bowling b").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return performance.BowlingAggregate{}, fmt.Errorf("build player bowling query: %w", err)
	}

	var row bowlingAggRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return performance.BowlingAggregate{}, fmt.Errorf("get player bowling: %w", err)
	}
	row.PlayerID = playerID
	return finalizedBowling(row), nil
}

func (r *PerformanceRepository) ListUnlinkedNames(ctx context.Context, season int) (map[string]string, error) {
	const unlinkedQuery = `
SELECT perf.player_id, MAX(perf.player_name) AS player_name
FROM (
    SELECT player_id, player_name FROM match_performance_batting WHERE season = :season
    UNION ALL
    SELECT player_id, player_name FROM match_performance_bowling WHERE season = :season
) perf
WHERE perf.player_id NOT IN (
    SELECT play_cricket_id FROM roster_members
    WHERE play_cricket_id IS NOT NULL AND play_cricket_id <> ''
)
GROUP BY perf.player_id`

	query, args, err := sqlx.Named(unlinkedQuery, map[string]any{"season": season})
	if err != nil {
		return nil, fmt.Errorf("bind list unlinked performance names query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []unlinkedNameRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unlinked performance names: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.PlayerID] = row.PlayerName
	}
	return out, nil
}

// leaderboardFrom only joins the teams table when the junior filter needs it.
func leaderboardFrom(base string, filter performance.Filter) string {
	if filter.IsJunior == nil {
		return base
	}
	return base + " JOIN play_cricket_teams t ON t.team_id = b.team_id"
}

func leaderboardConditions(alias string, filter performance.Filter) []qb.Condition {
	conditions := []qb.Condition{qb.Eq(alias+".season", filter.Season)}
	if filter.TeamID != "" {
		conditions = append(conditions, qb.Eq(alias+".team_id", filter.TeamID))
	}
	if len(filter.CompetitionTypes) > 0 {
		values := make([]any, 0, len(filter.CompetitionTypes))
		for _, competitionType := range filter.CompetitionTypes {
			values = append(values, competitionType)
		}
		conditions = append(conditions, qb.In(alias+".competition_type", values))
	}
	if filter.IsJunior != nil {
		conditions = append(conditions, qb.Eq("t.is_junior", *filter.IsJunior))
	}
	return conditions
}

func finalizedBatting(row battingAggRow) performance.BattingAggregate {
	agg := performance.BattingAggregate{
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		Innings:    row.Innings,
		NotOuts:    row.NotOuts,
		Runs:       row.Runs,
		HighScore:  row.HighScore,
		Balls:      row.Balls,
		Fifties:    row.Fifties,
		Hundreds:   row.Hundreds,
	}
	performance.FinalizeBatting(&agg)
	return agg
}

func finalizedBowling(row bowlingAggRow) performance.BowlingAggregate {
	agg := performance.BowlingAggregate{
		PlayerID:    row.PlayerID,
		PlayerName:  row.PlayerName,
		Matches:     row.Matches,
		Wickets:     row.Wickets,
		Runs:        row.Runs,
		Balls:       row.Balls,
		Maidens:     row.Maidens,
		BestWickets: row.BestWickets,
	}
	performance.FinalizeBowling(&agg)
	return agg
}
