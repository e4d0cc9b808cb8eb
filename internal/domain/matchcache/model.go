package matchcache

import "time"

// Entry is a persisted raw match-detail payload. Completed matches are
// immutable upstream, so a completed entry never goes stale; anything else
// is treated as a miss by the orchestrator so live scores get re-fetched.
type Entry struct {
	MatchID   string
	Payload   string
	Status    string
	MatchDate time.Time
	FetchedAt time.Time
}

const StatusCompleted = "completed"

func (e Entry) Completed() bool {
	return e.Status == StatusCompleted
}
