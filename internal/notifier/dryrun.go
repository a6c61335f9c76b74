package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DryRunNotifier prints what would be sent without contacting any channel
type DryRunNotifier struct {
	out      io.Writer
	channels []string
}

// NewDryRunNotifier creates a dry-run notifier. channels lists the channel
// keys that would have been used and is printed with the alert.
func NewDryRunNotifier(out io.Writer, channels ...string) *DryRunNotifier {
	return &DryRunNotifier{out: out, channels: channels}
}

// Name implements Notifier
func (n *DryRunNotifier) Name() string {
	return ChannelDryRun
}

// Notify prints the alert
func (n *DryRunNotifier) Notify(_ context.Context, alert Alert) error {
	channels := "none"
	if len(n.channels) > 0 {
		channels = strings.Join(n.channels, ", ")
	}

	body := FormatAlert(alert)
	fmt.Fprintf(n.out, "--- Alert (dry run, channels: %s) ---\n", channels)
	fmt.Fprintf(n.out, "Subject: %s\n\n", alert.Subject())
	fmt.Fprint(n.out, body)
	fmt.Fprintf(n.out, "\n(Tweet length: %d characters)\n", len([]rune(formatTweet(alert))))
	return nil
}
