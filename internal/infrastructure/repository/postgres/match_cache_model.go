package postgres

import "time"

type matchCacheTableModel struct {
	MatchID   string    `db:"match_id"`
	Payload   string    `db:"payload"`
	Status    string    `db:"status"`
	MatchDate time.Time `db:"match_date"`
	FetchedAt time.Time `db:"fetched_at"`
}
