package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/ticket-monitor/internal/config"
)

const maxTweetLength = 280

type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts alerts as tweets
type TwitterNotifier struct {
	statuses statusUpdater
}

// NewTwitterNotifier creates a notifier from OAuth1 user credentials
func NewTwitterNotifier(cfg config.TwitterConfig) (*TwitterNotifier, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" || cfg.AccessToken == "" || cfg.AccessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	oauth := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	httpClient := oauth.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses}, nil
}

// Name implements Notifier
func (n *TwitterNotifier) Name() string {
	return ChannelTwitter
}

// Notify implements Notifier
func (n *TwitterNotifier) Notify(_ context.Context, alert Alert) error {
	if _, _, err := n.statuses.Update(formatTweet(alert), nil); err != nil {
		return fmt.Errorf("failed to post tweet for %s: %w", alert.Details.Teams, err)
	}
	return nil
}

// formatTweet formats an alert as a tweet
func formatTweet(a Alert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏏 %s - %s\n", a.Details.Teams, a.Status)
	if a.Details.Date != "" {
		b.WriteString("📅 " + a.Details.Date)
		if a.Details.Time != "" {
			b.WriteString(" · " + a.Details.Time)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n🎟️ %s\n", a.URL)
	b.WriteString("\n#IPL #Tickets")

	tweet := b.String()
	if runes := []rune(tweet); len(runes) > maxTweetLength {
		tweet = string(runes[:maxTweetLength-3]) + "..."
	}
	return tweet
}
