package synclog

import "time"

// Entry is one row of the append-only sync audit trail: one per season per
// invocation. Errors carries newline-joined per-match failures; a populated
// Errors with a set CompletedAt means the run finished with partial failures.
type Entry struct {
	ID               int64
	Season           int
	StartedAt        time.Time
	CompletedAt      *time.Time
	MatchesProcessed int
	Errors           string
}
