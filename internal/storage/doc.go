// Package storage persists the status history of a monitored match.
//
// Every check appends one observation keyed by its local timestamp at second
// resolution. The default backend is a JSON object written to
// status_history.json; an SQLite database can be selected with
// history.driver: sqlite. Both backends keep the same contract, including
// the sharp edge that two observations in the same second share a key and
// the later one wins.
package storage
