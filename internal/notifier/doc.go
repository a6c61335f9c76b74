// Package notifier delivers ticket alerts over the configured channels.
//
// Each channel implements Notifier. A Manager fans an Alert out to every
// enabled channel and reports per-channel success; one failing channel never
// stops the others. Supported channels are email (SMTP with STARTTLS),
// Telegram and Twitter, plus a dry-run channel that prints instead of sending.
package notifier
