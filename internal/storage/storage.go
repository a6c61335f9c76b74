package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// HistoryStore records one observation per check
type HistoryStore interface {
	// Load returns every stored observation. A missing store is empty.
	Load() (ticket.History, error)
	// Record stores an observation under the current timestamp
	Record(status string, details *ticket.MatchDetails) error
	Close() error
}

// Open selects the backend named by cfg.Driver. An empty driver is inferred
// from the path extension.
func Open(cfg config.HistoryConfig, clk clock.Clock, log *logger.Logger) (HistoryStore, error) {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.Nop()
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverForPath(cfg.Path)
	}

	switch driver {
	case config.DriverFile:
		return NewFileStore(cfg.Path, clk, log)
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.Path, clk, log)
	default:
		return nil, fmt.Errorf("unknown history driver: %q", cfg.Driver)
	}
}

// DriverForPath guesses the backend from a file name
func DriverForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.DriverSQLite
	default:
		return config.DriverFile
	}
}

// expandPath resolves a leading ~/ and creates the parent directory
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating history directory: %w", err)
		}
	}

	return path, nil
}
