package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteResult writes the check result in the specified format
func WriteResult(w io.Writer, result ticket.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as JSON
func writeJSON(w io.Writer, result ticket.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the result as human-readable text
func writeText(w io.Writer, result ticket.Result) error {
	if d := result.MatchDetails; d != nil {
		fmt.Fprintf(w, "Match:  %s\n", d.Teams)
		fmt.Fprintf(w, "When:   %s, %s\n", d.Date, d.Time)
	}
	fmt.Fprintf(w, "Status: %s\n", result.Status)

	notify := "no"
	if result.Notify {
		notify = "yes"
	}
	fmt.Fprintf(w, "Notify: %s\n", notify)

	if result.Message != "" {
		fmt.Fprintf(w, "Note:   %s\n", result.Message)
	}
	fmt.Fprintf(w, "URL:    %s\n", result.URL)

	return nil
}
