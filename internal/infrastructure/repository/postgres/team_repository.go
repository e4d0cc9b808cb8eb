package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/team"
	qb "github.com/oakhurst-cc/playcricket-stats/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := teamTableModel{
			TeamID:      item.TeamID,
			Name:        item.Name,
			IsJunior:    item.IsJunior,
			SiteID:      item.SiteID,
			LastUpdated: item.LastUpdated,
		}
		query, args, err := qb.InsertModel("play_cricket_teams", insertModel, `ON CONFLICT (team_id)
DO UPDATE SET
    name = EXCLUDED.name,
    is_junior = EXCLUDED.is_junior,
    site_id = EXCLUDED.site_id,
    last_updated = EXCLUDED.last_updated`)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team team=%s: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("play_cricket_teams").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("play_cricket_teams").
		OrderBy("name", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		TeamID:      row.TeamID,
		Name:        row.Name,
		IsJunior:    row.IsJunior,
		SiteID:      row.SiteID,
		LastUpdated: row.LastUpdated,
	}
}
