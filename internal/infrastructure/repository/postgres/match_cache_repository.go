package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/matchcache"
	qb "github.com/oakhurst-cc/playcricket-stats/internal/platform/querybuilder"
)

type MatchCacheRepository struct {
	db *sqlx.DB
}

func NewMatchCacheRepository(db *sqlx.DB) *MatchCacheRepository {
	return &MatchCacheRepository{db: db}
}

func (r *MatchCacheRepository) Get(ctx context.Context, matchID string) (matchcache.Entry, bool, error) {
	query, args, err := qb.Select(
		"match_id",
		"payload",
		"status",
		"match_date",
		"fetched_at",
	).From("play_cricket_match_cache").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return matchcache.Entry{}, false, fmt.Errorf("build get cached match query: %w", err)
	}

	var row matchCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchcache.Entry{}, false, nil
		}
		return matchcache.Entry{}, false, fmt.Errorf("get cached match: %w", err)
	}

	return matchcache.Entry{
		MatchID:   row.MatchID,
		Payload:   row.Payload,
		Status:    row.Status,
		MatchDate: row.MatchDate,
		FetchedAt: row.FetchedAt,
	}, true, nil
}

func (r *MatchCacheRepository) Put(ctx context.Context, entry matchcache.Entry) error {
	insertModel := matchCacheTableModel{
		MatchID:   entry.MatchID,
		Payload:   entry.Payload,
		Status:    entry.Status,
		MatchDate: entry.MatchDate,
		FetchedAt: entry.FetchedAt,
	}
	query, args, err := qb.InsertModel("play_cricket_match_cache", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    match_date = EXCLUDED.match_date,
    fetched_at = EXCLUDED.fetched_at`)
	if err != nil {
		return fmt.Errorf("build upsert cached match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cached match match=%s: %w", entry.MatchID, err)
	}
	return nil
}
