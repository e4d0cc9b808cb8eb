package postgres

import "database/sql"

type rosterMemberTableModel struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	IsDependent   bool           `db:"is_dependent"`
	PlayCricketID sql.NullString `db:"play_cricket_id"`
}
