package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS status_history (
	recorded_at   TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	match_details TEXT NOT NULL DEFAULT '{}'
)`

// SQLiteStore keeps the history in an SQLite table. INSERT OR REPLACE on
// the timestamp key gives the same same-second overwrite as FileStore.
type SQLiteStore struct {
	db    *sql.DB
	clock clock.Clock
	log   *logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(path string, clk clock.Clock, log *logger.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		var err error
		if path, err = expandPath(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// One connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &SQLiteStore{db: db, clock: clk, log: log}, nil
}

// Load implements HistoryStore
func (s *SQLiteStore) Load() (ticket.History, error) {
	rows, err := s.db.Query(`SELECT recorded_at, status, match_details FROM status_history ORDER BY recorded_at`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	history := ticket.History{}
	for rows.Next() {
		var (
			key, status, raw string
			details          ticket.MatchDetails
		)
		if err := rows.Scan(&key, &status, &raw); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			s.log.Warn("Skipping unreadable match details", logger.Fields{"recorded_at": key})
		}
		history[key] = ticket.NewHistoryEntry(status, &details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}

	s.log.Metrics().SetGauge("history.entries", float64(len(history)))
	return history, nil
}

// Record implements HistoryStore
func (s *SQLiteStore) Record(status string, details *ticket.MatchDetails) error {
	entry := ticket.NewHistoryEntry(status, details)
	raw, err := json.Marshal(entry.MatchDetails)
	if err != nil {
		return fmt.Errorf("encoding match details: %w", err)
	}

	key := ticket.Timestamp(s.clock.Now())
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO status_history (recorded_at, status, match_details) VALUES (?, ?, ?)`,
		key, entry.Status, string(raw),
	); err != nil {
		return fmt.Errorf("inserting history row: %w", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM status_history`).Scan(&n); err == nil {
		s.log.Metrics().SetGauge("history.entries", float64(n))
	}
	s.log.Debug("Status saved to history", logger.Fields{"timestamp": key, "status": status})
	return nil
}

// Close implements HistoryStore
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
