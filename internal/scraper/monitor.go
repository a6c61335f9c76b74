package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// ErrUnknownPlatform is returned by New for unregistered platforms
var ErrUnknownPlatform = errors.New("unsupported platform")

// Monitor checks one match on one site
type Monitor interface {
	Check(ctx context.Context) ticket.Result
}

// HistoryRecorder persists one observation per check
type HistoryRecorder interface {
	Record(status string, details *ticket.MatchDetails) error
}

// Deps carries everything a platform monitor needs
type Deps struct {
	Platform        config.PlatformConfig
	URL             string
	MatchIdentifier string
	Fetcher         Fetcher
	History         HistoryRecorder
	Locator         SectionLocator // optional, defaults per platform
	Log             *logger.Logger
}

// Factory builds a Monitor for a platform
type Factory func(Deps) (Monitor, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register("district", NewDistrictMonitor)
}

// Register makes a platform available to New. Registering a name twice
// replaces the earlier factory.
func Register(platform string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[platform] = factory
}

// Platforms lists registered platform names
func Platforms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the monitor registered under platform
func New(platform string, deps Deps) (Monitor, error) {
	registryMu.RLock()
	factory, ok := registry[platform]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}

	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewHTTPFetcher(FetcherOptions{CloudflareBypass: deps.Platform.CloudflareBypass})
	}
	if deps.History == nil {
		return nil, fmt.Errorf("monitor for %s: history recorder is required", platform)
	}

	return factory(deps)
}
