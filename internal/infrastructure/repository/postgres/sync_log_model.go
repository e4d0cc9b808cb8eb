package postgres

import (
	"database/sql"
	"time"
)

type syncLogTableModel struct {
	ID               int64        `db:"id"`
	Season           int          `db:"season"`
	StartedAt        time.Time    `db:"started_at"`
	CompletedAt      sql.NullTime `db:"completed_at"`
	MatchesProcessed int          `db:"matches_processed"`
	Errors           string       `db:"errors"`
}

type syncLogInsertModel struct {
	Season           int        `db:"season"`
	StartedAt        time.Time  `db:"started_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	MatchesProcessed int        `db:"matches_processed"`
	Errors           string     `db:"errors"`
}
