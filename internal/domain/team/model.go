package team

import "time"

// Team is a cached Play-Cricket team row, refreshed opportunistically during
// sync. IsJunior drives the junior/senior leaderboard filter.
type Team struct {
	TeamID      string
	Name        string
	IsJunior    bool
	SiteID      string
	LastUpdated time.Time
}
