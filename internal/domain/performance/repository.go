package performance

import "context"

type Repository interface {
	// UpsertMatch replaces both cards for one match in a single
	// transaction, keyed on the (match_id, player_id) unique constraints,
	// so concurrent syncs of the same match converge.
	UpsertMatch(ctx context.Context, matchID string, batting []Batting, bowling []Bowling) error

	BattingLeaderboard(ctx context.Context, filter Filter) ([]BattingAggregate, error)
	BowlingLeaderboard(ctx context.Context, filter Filter) ([]BowlingAggregate, error)

	// PlayerBatting/PlayerBowling aggregate a single player's rows; season
	// nil means whole career.
	PlayerBatting(ctx context.Context, playerID string, season *int) (BattingAggregate, error)
	PlayerBowling(ctx context.Context, playerID string, season *int) (BowlingAggregate, error)

	// ListUnlinkedNames returns distinct (player_id, player_name) pairs from
	// both performance tables whose player id is not linked to any roster
	// member. Feeds the link-suggestion surface.
	ListUnlinkedNames(ctx context.Context, season int) (map[string]string, error)
}
