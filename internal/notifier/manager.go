package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
)

// Manager fans alerts out to a fixed set of channels
type Manager struct {
	notifiers []Notifier
	log       *logger.Logger
}

// NewManager creates a manager over the given notifiers, sent in order
func NewManager(log *logger.Logger, notifiers ...Notifier) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{notifiers: notifiers, log: log}
}

// FromConfig builds notifiers for every enabled channel block
func FromConfig(cfg *config.Config, log *logger.Logger) (*Manager, error) {
	var notifiers []Notifier

	if cfg.Email.Enabled {
		n, err := NewEmailNotifier(cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("configuring email: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	if cfg.Telegram.Enabled {
		n, err := NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			return nil, fmt.Errorf("configuring telegram: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	if cfg.Twitter.Enabled {
		n, err := NewTwitterNotifier(cfg.Twitter)
		if err != nil {
			return nil, fmt.Errorf("configuring twitter: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	return NewManager(log, notifiers...), nil
}

// Channels lists the configured channel keys in send order
func (m *Manager) Channels() []string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Send delivers alert on every channel and reports which ones succeeded.
// Failures are logged and never stop the remaining channels.
func (m *Manager) Send(ctx context.Context, alert Alert) map[string]bool {
	results := make(map[string]bool, len(m.notifiers))

	m.log.Info("Sending notification to users", logger.Fields{
		"message":  alert.Message,
		"channels": len(m.notifiers),
	})

	for _, n := range m.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			m.log.Error("Failed to send notification", logger.Fields{"channel": n.Name()}, err)
			m.log.Metrics().IncrCounter("notifications.failed")
			results[n.Name()] = false
			continue
		}

		m.log.Info("Notification sent", logger.Fields{"channel": n.Name()})
		m.log.Metrics().IncrCounter("notifications.sent")
		results[n.Name()] = true
	}

	return results
}
