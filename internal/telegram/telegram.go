package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const timeout = 10 * time.Second

// Client sends messages to one chat
type Client struct {
	chatID string
	bot    *bot.Bot
}

// Option configures a Client
type Option func(*options)

type options struct {
	serverURL  string
	httpClient *http.Client
}

// WithServerURL points the client at a different Bot API host
func WithServerURL(url string) Option {
	return func(o *options) { o.serverURL = url }
}

// WithHTTPClient overrides the HTTP client used for API calls
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, opts ...Option) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	o := options{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(&o)
	}

	botOpts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(timeout, o.httpClient),
	}
	if o.serverURL != "" {
		botOpts = append(botOpts, bot.WithServerURL(o.serverURL))
	}

	b, err := bot.New(botToken, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	return &Client{chatID: chatID, bot: b}, nil
}

// SendMessage sends HTML-formatted text to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	disabled := true
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disabled,
		},
	})
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
