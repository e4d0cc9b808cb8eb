package matchcache

import "context"

type Repository interface {
	// Get returns the cached entry and true, or a zero entry and false on a
	// miss.
	Get(ctx context.Context, matchID string) (Entry, bool, error)
	// Put upserts on match_id; the latest fetch wins.
	Put(ctx context.Context, entry Entry) error
}
