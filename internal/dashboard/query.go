package dashboard

import (
	"sort"
	"strings"

	"interview-assistant/internal/interview"
)

// SortKey selects the order of an archive listing.
type SortKey string

const (
	SortScore SortKey = "score"
	SortName  SortKey = "name"
	SortDate  SortKey = "date"
)

// ParseSortKey maps a query value to a SortKey. Empty means SortScore.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortScore, nil
	case SortScore, SortName, SortDate:
		return k, nil
	default:
		return "", ErrInvalidSort
	}
}

// Filter keeps the entries whose name or email contains q, ignoring case.
// An empty q keeps everything. The archive is never modified.
func Filter(archive []interview.CompletedSession, q string) []interview.CompletedSession {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]interview.CompletedSession, 0, len(archive))
	for _, cs := range archive {
		if q == "" ||
			strings.Contains(strings.ToLower(cs.Candidate.Name), q) ||
			strings.Contains(strings.ToLower(cs.Candidate.Email), q) {
			out = append(out, cs)
		}
	}
	return out
}

// SortByScore orders highest score first, keeping archive order for ties.
func SortByScore(list []interview.CompletedSession) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
}

// SortByName orders by candidate name, ignoring case.
func SortByName(list []interview.CompletedSession) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Candidate.Name) < strings.ToLower(list[j].Candidate.Name)
	})
}

// SortByDate orders newest first.
func SortByDate(list []interview.CompletedSession) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CompletedAt.After(list[j].CompletedAt)
	})
}

// Sort orders list in place by key.
func Sort(list []interview.CompletedSession, key SortKey) {
	switch key {
	case SortName:
		SortByName(list)
	case SortDate:
		SortByDate(list)
	default:
		SortByScore(list)
	}
}

// Find returns the entry with the given id.
func Find(archive []interview.CompletedSession, id string) (interview.CompletedSession, bool) {
	for _, cs := range archive {
		if cs.ID == id {
			return cs, true
		}
	}
	return interview.CompletedSession{}, false
}

// Delete returns a copy of archive without the entry whose id matches.
func Delete(archive []interview.CompletedSession, id string) ([]interview.CompletedSession, bool) {
	out := make([]interview.CompletedSession, 0, len(archive))
	found := false
	for _, cs := range archive {
		if !found && cs.ID == id {
			found = true
			continue
		}
		out = append(out, cs)
	}
	return out, found
}
