package notifier

import (
	"context"

	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/telegram"
)

type messageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TelegramNotifier posts alerts to a Telegram chat
type TelegramNotifier struct {
	client messageSender
}

// NewTelegramNotifier creates a notifier for the configured bot and chat
func NewTelegramNotifier(cfg config.TelegramConfig, opts ...telegram.Option) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(cfg.BotToken, cfg.ChatID, opts...)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{client: client}, nil
}

// Name implements Notifier
func (n *TelegramNotifier) Name() string {
	return ChannelTelegram
}

// Notify implements Notifier
func (n *TelegramNotifier) Notify(ctx context.Context, alert Alert) error {
	return n.client.SendMessage(ctx, telegram.FormatMessage(alert.Message, formatDetails(alert)))
}
