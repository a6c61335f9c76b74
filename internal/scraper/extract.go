package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
	"golang.org/x/net/html"
)

// listingPattern is the shape of one listing, e.g.
// "Sunday 14 April Mumbai Indians vs Chennai Super Kings 7:30 PM onwards Booking Open".
// The status alternatives are appended per Extractor.
const listingPattern = `(?P<day>\w+)\s+` +
	`(?P<date>\d{1,2})\s+` +
	`(?P<month>\w+)\s+` +
	`.*?` +
	`(?P<time>\d{1,2}:\d{2}\s+[AP]M)\s+` +
	`onwards\s+` +
	`(?:.*?\s+)?`

var nbspReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// Extractor pulls match details out of a section's text
type Extractor struct {
	markers []string
	pattern *regexp.Regexp
	log     *logger.Logger
}

// NewExtractor compiles the listing pattern for the given status markers.
// Markers are matched literally and tried in order, so a marker that is a
// prefix of another (e.g. "Booking" and "Booking Open") must come after it.
func NewExtractor(markers []string, log *logger.Logger) *Extractor {
	e := &Extractor{markers: markers, log: log}

	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		if m == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	if len(quoted) > 0 {
		e.pattern = regexp.MustCompile(listingPattern + `(?P<status>` + strings.Join(quoted, "|") + `)`)
	}

	return e
}

// Extract looks for matchID in text and parses its listing.
// found is false when the match is not listed or its listing does not have
// the expected shape; neither is an error.
func (e *Extractor) Extract(text, matchID string) (details ticket.MatchDetails, status string, found bool) {
	// &nbsp; decodes to U+00A0, which RE2's \s does not match.
	text = nbspReplacer.Replace(text)

	if !ticket.ContainsFold(text, matchID) {
		e.log.Debug("Match name not found in container text", logger.Fields{"match": matchID})
		return ticket.MatchDetails{}, "", false
	}

	var fragment string
	for _, f := range SplitFragments(text, e.markers) {
		if ticket.ContainsFold(f, matchID) {
			fragment = f
			break
		}
	}

	if e.pattern == nil {
		e.log.Debug("No status markers configured", logger.Fields{"match": matchID})
		return ticket.MatchDetails{}, "", false
	}

	m := e.pattern.FindStringSubmatch(fragment)
	if m == nil {
		e.log.Debug("Found match but failed to extract details", logger.Fields{
			"match":    matchID,
			"fragment": fragment,
		})
		return ticket.MatchDetails{}, "", false
	}

	group := func(name string) string {
		return m[e.pattern.SubexpIndex(name)]
	}

	details = ticket.MatchDetails{
		Teams: matchID,
		Date:  group("day") + ", " + group("date") + " " + group("month"),
		Time:  group("time"),
	}
	return details, group("status"), true
}

// ExtractFromSelection flattens the container's text and calls Extract
func (e *Extractor) ExtractFromSelection(sel *goquery.Selection, matchID string) (ticket.MatchDetails, string, bool) {
	if sel == nil || sel.Length() == 0 {
		e.log.Debug("Extractor received an empty container", nil)
		return ticket.MatchDetails{}, "", false
	}
	return e.Extract(FlattenText(sel), matchID)
}

// FlattenText joins every non-blank text node under sel with single spaces,
// trimming each node. Script and style contents are skipped.
func FlattenText(sel *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
