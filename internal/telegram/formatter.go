package telegram

import (
	"html"
	"strings"
)

// FormatMessage renders an alert as a Telegram HTML message: the header in
// bold, then the body. Both are escaped.
func FormatMessage(header, body string) string {
	var msg strings.Builder

	if header != "" {
		msg.WriteString("<b>")
		msg.WriteString(html.EscapeString(header))
		msg.WriteString("</b>")
	}

	if body = strings.TrimSpace(body); body != "" {
		if msg.Len() > 0 {
			msg.WriteString("\n\n")
		}
		msg.WriteString(html.EscapeString(body))
	}

	return msg.String()
}
