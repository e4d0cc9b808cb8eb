package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/synclog"
	qb "github.com/oakhurst-cc/playcricket-stats/internal/platform/querybuilder"
)

type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Append(ctx context.Context, entry synclog.Entry) error {
	insertModel := syncLogInsertModel{
		Season:           entry.Season,
		StartedAt:        entry.StartedAt,
		CompletedAt:      entry.CompletedAt,
		MatchesProcessed: entry.MatchesProcessed,
		Errors:           entry.Errors,
	}
	query, args, err := qb.InsertModel("play_cricket_sync_log", insertModel, "")
	if err != nil {
		return fmt.Errorf("build append sync log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append sync log season=%d: %w", entry.Season, err)
	}
	return nil
}

func (r *SyncLogRepository) ListRecent(ctx context.Context, limit int) ([]synclog.Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("id", "season", "started_at", "completed_at", "matches_processed", "errors").
		From("play_cricket_sync_log").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent sync logs query: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent sync logs: %w", err)
	}

	out := make([]synclog.Entry, 0, len(rows))
	for _, row := range rows {
		entry := synclog.Entry{
			ID:               row.ID,
			Season:           row.Season,
			StartedAt:        row.StartedAt,
			MatchesProcessed: row.MatchesProcessed,
			Errors:           row.Errors,
		}
		if row.CompletedAt.Valid {
			completedAt := row.CompletedAt.Time
			entry.CompletedAt = &completedAt
		}
		out = append(out, entry)
	}
	return out, nil
}
