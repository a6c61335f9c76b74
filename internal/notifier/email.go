package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/pfrederiksen/ticket-monitor/internal/config"
)

type sendFunc func(addr string, auth smtp.Auth, e *email.Email) error

func sendMail(addr string, auth smtp.Auth, e *email.Email) error {
	return e.Send(addr, auth)
}

// EmailNotifier sends alerts over SMTP. net/smtp upgrades to STARTTLS when
// the server offers it, which is what port 587 relays expect.
type EmailNotifier struct {
	cfg  config.EmailConfig
	send sendFunc
}

// NewEmailNotifier checks the SMTP settings and returns a notifier
func NewEmailNotifier(cfg config.EmailConfig) (*EmailNotifier, error) {
	if cfg.SMTPServer == "" || cfg.SenderEmail == "" || cfg.RecipientEmail == "" {
		return nil, fmt.Errorf("email: smtp_server, sender_email and recipient_email are required")
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = config.DefaultSMTPPort
	}
	return &EmailNotifier{cfg: cfg, send: sendMail}, nil
}

// Name implements Notifier
func (n *EmailNotifier) Name() string {
	return ChannelEmail
}

// Notify implements Notifier
func (n *EmailNotifier) Notify(_ context.Context, alert Alert) error {
	mail := email.NewEmail()
	mail.From = n.cfg.SenderEmail
	mail.To = []string{n.cfg.RecipientEmail}
	mail.Subject = alert.Subject()
	mail.Text = []byte(FormatAlert(alert))

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPServer, n.cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.cfg.SenderEmail, n.cfg.SenderPassword, n.cfg.SMTPServer)

	if err := n.send(addr, auth, mail); err != nil {
		return fmt.Errorf("sending email to %s: %w", n.cfg.RecipientEmail, err)
	}
	return nil
}
