package team

import "context"

type Repository interface {
	Upsert(ctx context.Context, items []Team) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
}
