// Package namematch scores how likely two human names refer to the same
// person. It is used to reconcile Play-Cricket scorecard names against the
// club roster; scores are suggestions for review, never authoritative.
package namematch

import (
	"sort"
	"strings"
)

var titleTokens = map[string]struct{}{
	"mr":     {},
	"mrs":    {},
	"ms":     {},
	"dr":     {},
	"miss":   {},
	"master": {},
	"rev":    {},
	"sir":    {},
	"prof":   {},
}

// Normalize lowercases a name, strips honorific titles and the punctuation
// Play-Cricket scorecards are inconsistent about (periods, hyphens,
// apostrophes), and collapses whitespace.
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}

	var builder strings.Builder
	for _, r := range lowered {
		switch r {
		case '.', '-', '\'', '’':
			continue
		default:
			builder.WriteRune(r)
		}
	}

	fields := strings.Fields(builder.String())
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, isTitle := titleTokens[field]; isTitle {
			continue
		}
		out = append(out, field)
	}

	return strings.Join(out, " ")
}

// Similarity returns a confidence score in [0,1] that two names identify the
// same person. 1.0 is an exact match after normalization; anything at or
// above ~0.7 is worth surfacing to an admin.
func Similarity(nameA, nameB string) float64 {
	a := Normalize(nameA)
	b := Normalize(nameB)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	if tokenSortedEqual(tokensA, tokensB) {
		return 0.95
	}

	lastA := tokensA[len(tokensA)-1]
	lastB := tokensB[len(tokensB)-1]
	if lastA == lastB {
		if score, ok := surnameMatchedScore(tokensA, tokensB, a, b); ok {
			return score
		}
	}

	if sim := editSimilarity(a, b); sim >= 0.85 {
		return sim * 0.7
	}
	return 0
}

// surnameMatchedScore applies the first-name rules that only make sense once
// the surnames agree. Returns ok=false when no rule produced a score, in
// which case the caller falls back to whole-string similarity.
func surnameMatchedScore(tokensA, tokensB []string, fullA, fullB string) (float64, bool) {
	firstA := tokensA[0]
	firstB := tokensB[0]

	// Initial against full first name: "J Smith" vs "John Smith".
	if len(firstA) == 1 || len(firstB) == 1 {
		if strings.HasPrefix(firstB, firstA) || strings.HasPrefix(firstA, firstB) {
			return 0.8, true
		}
		return 0.3, true
	}

	// Extra middle name or initial: "John Smith" vs "John A Smith".
	if len(tokensA) != len(tokensB) && firstA == firstB {
		return 0.85, true
	}

	// First-name prefix: "Alex Young" vs "Alexander Young".
	if len(firstA) >= 3 && len(firstB) >= 3 &&
		(strings.HasPrefix(firstA, firstB) || strings.HasPrefix(firstB, firstA)) {
		return 0.8, true
	}

	if sim := editSimilarity(firstA, firstB); sim >= 0.7 {
		return 0.5 + 0.3*sim, true
	}
	// First names alone are too short for a typo like "Jonh" to clear the
	// bar; the whole string, with the shared surname, still can.
	if sim := editSimilarity(fullA, fullB); sim >= 0.7 {
		return 0.5 + 0.3*sim, true
	}

	return 0, false
}

func tokenSortedEqual(tokensA, tokensB []string) bool {
	if len(tokensA) != len(tokensB) {
		return false
	}

	sortedA := append([]string(nil), tokensA...)
	sortedB := append([]string(nil), tokensB...)
	sort.Strings(sortedA)
	sort.Strings(sortedB)
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

// editSimilarity normalizes Levenshtein distance into [0,1], where 1 means
// identical strings.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

// editDistance is classic Levenshtein with unit insert/delete/substitute
// costs, computed over two rolling rows.
func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
