package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// FileStore keeps the history as one JSON object on disk. The file is read
// once, by Load or the first Record, and rewritten in full on every Record.
type FileStore struct {
	path  string
	clock clock.Clock
	log   *logger.Logger

	mu      sync.Mutex
	loaded  bool
	entries ticket.History
}

// NewFileStore creates a store at path, creating its directory if needed.
// The file itself is not created until the first Record.
func NewFileStore(path string, clk clock.Clock, log *logger.Logger) (*FileStore, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	return &FileStore{
		path:    path,
		clock:   clk,
		log:     log,
		entries: ticket.History{},
	}, nil
}

// Load reads the history file. A missing file yields an empty history; an
// unreadable or corrupt one is logged and also treated as empty, so a bad
// file is replaced by the next Record.
func (s *FileStore) Load() (ticket.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()

	out := make(ticket.History, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *FileStore) load() {
	s.entries = s.read()
	s.loaded = true
	s.log.Metrics().SetGauge("history.entries", float64(len(s.entries)))
}

func (s *FileStore) read() ticket.History {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error("Error loading status history", logger.Fields{"path": s.path}, err)
		}
		return ticket.History{}
	}

	history := ticket.History{}
	if err := json.Unmarshal(data, &history); err != nil {
		s.log.Error("Error loading status history", logger.Fields{"path": s.path}, fmt.Errorf("parsing history: %w", err))
		return ticket.History{}
	}
	return history
}

// Record adds the observation to the loaded history and writes it back
func (s *FileStore) Record(status string, details *ticket.MatchDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.load()
	}

	key := ticket.Timestamp(s.clock.Now())
	s.entries[key] = ticket.NewHistoryEntry(status, details)

	data, err := json.MarshalIndent(s.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}

	s.log.Metrics().SetGauge("history.entries", float64(len(s.entries)))
	s.log.Debug("Status saved to history", logger.Fields{"timestamp": key, "status": status})
	return nil
}

// Close implements HistoryStore
func (s *FileStore) Close() error {
	return nil
}
