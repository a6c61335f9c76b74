package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// Channel keys reported by Manager.Send
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram_message"
	ChannelTwitter  = "twitter"
	ChannelDryRun   = "dry_run"
)

// Notifier delivers an alert over one channel
type Notifier interface {
	// Name is the channel key used in Send results
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// Alert is what gets sent when a check asks for a notification
type Alert struct {
	Message string
	Details ticket.MatchDetails
	Status  string
	URL     string
}

// AlertFromResult builds an alert, substituting the default header for an
// empty message
func AlertFromResult(r ticket.Result) Alert {
	alert := Alert{
		Message: r.Message,
		Status:  r.Status,
		URL:     r.URL,
	}
	if alert.Message == "" {
		alert.Message = ticket.DefaultAlertMessage
	}
	if r.MatchDetails != nil {
		alert.Details = *r.MatchDetails
	}
	return alert
}

// Subject is the one-line summary used for email subjects
func (a Alert) Subject() string {
	return fmt.Sprintf("ALERT: %s - %s!", a.Details.Teams, a.Status)
}

// FormatAlert renders the plain-text alert body shared by all channels
func FormatAlert(a Alert) string {
	return a.Message + "\n\n" + formatDetails(a)
}

// formatDetails renders everything after the header line
func formatDetails(a Alert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Match: %s\n", a.Details.Teams)
	fmt.Fprintf(&b, "Date: %s\n", a.Details.Date)
	fmt.Fprintf(&b, "Time: %s\n", a.Details.Time)
	fmt.Fprintf(&b, "Current Status: %s\n\n", a.Status)
	fmt.Fprintf(&b, "Visit: %s\n", a.URL)

	return b.String()
}
