// Package cli implements the command-line interface for ticket-monitor.
//
// The root command runs one check: it loads configuration, checks the match
// page, records the observation and sends alerts when the status calls for
// it. It is meant to be run from cron or a CI schedule. The history
// subcommand prints recorded observations and validate checks configuration
// without touching the network.
package cli
