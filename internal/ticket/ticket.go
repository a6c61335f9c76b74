package ticket

import (
	"sort"
	"strings"
	"time"
)

const (
	// MatchSeparator must appear exactly as written in a match identifier.
	MatchSeparator = " vs "

	StatusUnknown       = "Match status unknown / Not Found"
	StatusInvalidFormat = "Invalid match format (expected 'Team A vs Team B')"

	MessageOnSale          = "🚨 URGENT: Tickets are now available for booking! 🚨"
	MessageSectionsMissing = "Error: Could not locate event sections"
	DefaultAlertMessage    = "🚨Tickets status update 🚨"

	// TimestampLayout keys the status history. Second resolution: two records in
	// the same second share a key and the later one wins.
	TimestampLayout = "2006-01-02 15:04:05"
)

// MatchDetails describes a listed match
type MatchDetails struct {
	Teams string `json:"teams,omitempty"`
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
}

// Result is the outcome of one check
type Result struct {
	Notify       bool          `json:"notify"`
	URL          string        `json:"url"`
	Status       string        `json:"status"`
	MatchDetails *MatchDetails `json:"match_details,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// NewResult returns a result in the unknown state for the given page
func NewResult(url string) Result {
	return Result{
		URL:    url,
		Status: StatusUnknown,
	}
}

// ValidIdentifier reports whether id names two teams separated by " vs ".
func ValidIdentifier(id string) bool {
	return strings.Contains(id, MatchSeparator)
}

// Teams splits a valid identifier into its two team names.
func Teams(id string) (home, away string, ok bool) {
	home, away, ok = strings.Cut(id, MatchSeparator)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(home), strings.TrimSpace(away), true
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// HistoryEntry is one recorded observation
type HistoryEntry struct {
	Status       string        `json:"status"`
	MatchDetails *MatchDetails `json:"match_details"`
}

// NewHistoryEntry builds an entry; nil details are stored as an empty object.
func NewHistoryEntry(status string, details *MatchDetails) HistoryEntry {
	if details == nil {
		details = &MatchDetails{}
	}
	return HistoryEntry{Status: status, MatchDetails: details}
}

// History maps formatted timestamps to observations
type History map[string]HistoryEntry

// Timestamp formats t as a history key
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Keys returns the timestamps in chronological order
func (h History) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Latest returns the most recent entry, if any
func (h History) Latest() (string, HistoryEntry, bool) {
	keys := h.Keys()
	if len(keys) == 0 {
		return "", HistoryEntry{}, false
	}
	last := keys[len(keys)-1]
	return last, h[last], true
}
