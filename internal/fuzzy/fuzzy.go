// Package fuzzy implements the subsequence matcher used for file mentions
// and task search. A query matches a candidate when every query character
// appears in the candidate, case-insensitively, in order. Matches are
// scored to reward contiguous runs and path-segment starts.
package fuzzy

import (
	"sort"
	"unicode"
)

// MaxResults bounds the ranked result list. This caps render cost; it is
// not an algorithmic requirement.
const MaxResults = 15

// Match holds one scored candidate.
type Match struct {
	// Index is the candidate's position in the input slice.
	Index int
	// Str is the candidate string.
	Str string
	// Score is the relevance score; higher ranks first.
	Score int
	// MatchedIndexes are the candidate rune indexes that matched the
	// query, in order (the candidate is scanned as runes). Highlight
	// renderers must index into []rune(Str), not the raw string.
	MatchedIndexes []int
}

// Score scans candidate left to right and reports whether query is a
// case-insensitive subsequence of it, along with a relevance score and the
// matched candidate indexes.
//
// Scoring per matched character: 1 point, 2 points when the match
// immediately follows the previous matched index, plus 3 bonus points when
// the matched index starts the candidate or follows a path separator.
func Score(query, candidate string) (matched bool, score int, indexes []int) {
	if query == "" {
		return true, 0, nil
	}
	q := []rune(query)
	c := []rune(candidate)
	qi := 0
	prev := -2 // never adjacent to index 0
	indexes = make([]int, 0, len(q))
	for ci := 0; ci < len(c) && qi < len(q); ci++ {
		if !runeFoldEq(q[qi], c[ci]) {
			continue
		}
		pts := 1
		if ci == prev+1 {
			pts = 2
		}
		if ci == 0 || c[ci-1] == '/' || c[ci-1] == '\\' {
			pts += 3
		}
		score += pts
		indexes = append(indexes, ci)
		prev = ci
		qi++
	}
	if qi < len(q) {
		return false, 0, nil
	}
	return true, score, indexes
}

// Rank matches query against every candidate, discards non-matches, sorts
// the rest by descending score, and caps the list at MaxResults. The sort
// is stable; ties keep input order.
func Rank(query string, candidates []string) []Match {
	matches := make([]Match, 0, len(candidates))
	for i, cand := range candidates {
		ok, score, idx := Score(query, cand)
		if !ok {
			continue
		}
		matches = append(matches, Match{Index: i, Str: cand, Score: score, MatchedIndexes: idx})
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

func runeFoldEq(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}
