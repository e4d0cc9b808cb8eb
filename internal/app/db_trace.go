package app

import (
	"regexp"
	"strings"
)

// Span attributes get the collapsed query; anything past this length is
// elided so scorecard upserts do not bloat trace storage.
const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	collapsed := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(collapsed) > maxTracedQueryLength {
		return collapsed[:maxTracedQueryLength] + "..."
	}
	return collapsed
}
