package roster

// Member is a club member or a member's dependent. PlayCricketID carries the
// optional link to an external player identity; at most one member may hold
// a given id (unique, nullable).
type Member struct {
	ID            string
	Name          string
	IsDependent   bool
	PlayCricketID string
}

// LinkSuggestion pairs an unlinked scorecard identity with a roster member
// the matcher thinks could be the same person. Suggestions are review
// material for admins, never applied automatically.
type LinkSuggestion struct {
	PlayerID   string
	PlayerName string
	MemberID   string
	MemberName string
	Score      float64
}
