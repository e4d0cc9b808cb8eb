package roster

import "context"

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, memberID string) (Member, bool, error)
	GetByPlayCricketID(ctx context.Context, playCricketID string) (Member, bool, error)
	// SetPlayCricketID links a member to an external player id; the unique
	// constraint rejects a second member claiming the same id.
	SetPlayCricketID(ctx context.Context, memberID, playCricketID string) error
	ClearPlayCricketID(ctx context.Context, memberID string) error
}
