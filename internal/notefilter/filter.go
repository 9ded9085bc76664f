// Package notefilter derives the visible subset of an in-memory note
// collection from a search string and selected branch/semester sets.
// It holds no state of its own: Apply and ComputeStats are pure functions
// over the collection the caller owns.
package notefilter

import (
	"strings"

	"notesapi/internal/model"
)

// State is the transient filter selection for one request. An empty dimension
// matches everything, not nothing.
type State struct {
	Search    string
	Branches  []string
	Semesters []int
}

// Empty reports whether no filter criterion is active.
func (s State) Empty() bool {
	return strings.TrimSpace(s.Search) == "" && len(s.Branches) == 0 && len(s.Semesters) == 0
}

// Apply returns the notes that satisfy every active criterion, preserving
// input order. The input slice is never mutated.
func Apply(notes []model.Note, s State) []model.Note {
	search := strings.ToLower(strings.TrimSpace(s.Search))

	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if !matchesSearch(n, search) {
			continue
		}
		if !matchesBranch(n, s.Branches) {
			continue
		}
		if !matchesSemester(n, s.Semesters) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func matchesSearch(n model.Note, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), search) ||
		strings.Contains(strings.ToLower(n.Subject), search)
}

func matchesBranch(n model.Note, branches []string) bool {
	if len(branches) == 0 {
		return true
	}
	for _, b := range branches {
		if n.Branch == b {
			return true
		}
	}
	return false
}

func matchesSemester(n model.Note, semesters []int) bool {
	if len(semesters) == 0 {
		return true
	}
	for _, s := range semesters {
		if n.Semester == s {
			return true
		}
	}
	return false
}

// Stats are the aggregate numbers shown above the notes grid. They are
// derived from the full collection, not the filtered subset.
type Stats struct {
	TotalNotes     int `json:"total_notes"`
	DistinctBranch int `json:"distinct_branches"`
	UploadedByUser int `json:"my_uploads"`
}

// ComputeStats aggregates over the full collection. currentUserID may be
// empty for anonymous visitors; their upload count is then zero.
func ComputeStats(notes []model.Note, currentUserID string) Stats {
	branches := make(map[string]struct{})
	mine := 0
	for _, n := range notes {
		branches[n.Branch] = struct{}{}
		if currentUserID != "" && n.UploadedBy == currentUserID {
			mine++
		}
	}
	return Stats{
		TotalNotes:     len(notes),
		DistinctBranch: len(branches),
		UploadedByUser: mine,
	}
}
