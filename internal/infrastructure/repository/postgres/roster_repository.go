package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/roster"
	qb "github.com/oakhurst-cc/playcricket-stats/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Member, error) {
	query, args, err := qb.Select("id", "name", "is_dependent", "play_cricket_id").
		From("roster_members").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster members query: %w", err)
	}

	var rows []rosterMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster members: %w", err)
	}

	out := make([]roster.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out, nil
}

func (r *RosterRepository) GetByID(ctx context.Context, memberID string) (roster.Member, bool, error) {
	return r.getOne(ctx, qb.Eq("id", memberID), "get roster member")
}

func (r *RosterRepository) GetByPlayCricketID(ctx context.Context, playCricketID string) (roster.Member, bool, error) {
	return r.getOne(ctx, qb.Eq("play_cricket_id", playCricketID), "get roster member by player id")
}

func (r *RosterRepository) getOne(ctx context.Context, condition qb.Condition, op string) (roster.Member, bool, error) {
	query, args, err := qb.Select("id", "name", "is_dependent", "play_cricket_id").
		From("roster_members").
		Where(condition).
		ToSQL()
	if err != nil {
		return roster.Member{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row rosterMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Member{}, false, nil
		}
		return roster.Member{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return memberFromRow(row), true, nil
}

func (r *RosterRepository) SetPlayCricketID(ctx context.Context, memberID, playCricketID string) error {
	query, args, err := qb.Update("roster_members").
		Set("play_cricket_id", playCricketID).
		Where(qb.Eq("id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link roster member query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("link roster member member=%s: %w", memberID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("link roster member member=%s: no row updated", memberID)
	}
	return nil
}

func (r *RosterRepository) ClearPlayCricketID(ctx context.Context, memberID string) error {
	query, args, err := qb.Update("roster_members").
		SetExpr("play_cricket_id", "NULL").
		Where(qb.Eq("id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build unlink roster member query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unlink roster member member=%s: %w", memberID, err)
	}
	return nil
}

func memberFromRow(row rosterMemberTableModel) roster.Member {
	return roster.Member{
		ID:            row.ID,
		Name:          row.Name,
		IsDependent:   row.IsDependent,
		PlayCricketID: nullStringToString(row.PlayCricketID),
	}
}
