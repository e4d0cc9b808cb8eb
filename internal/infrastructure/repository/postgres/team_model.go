package postgres

import "time"

type teamTableModel struct {
	TeamID      string    `db:"team_id"`
	Name        string    `db:"name"`
	IsJunior    bool      `db:"is_junior"`
	SiteID      string    `db:"site_id"`
	LastUpdated time.Time `db:"last_updated"`
}
