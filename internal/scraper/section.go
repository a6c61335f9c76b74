package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
)

// Section headings on the team landing page, in priority order
const (
	SectionOnSale   = "Tickets on sale"
	SectionUpcoming = "Upcoming"
)

// SectionLocator finds the element holding the listings shown under a heading.
// Implementations must never panic and report false when the page does not
// have the expected shape.
type SectionLocator interface {
	Locate(doc *goquery.Document, heading string) (*goquery.Selection, bool)
}

// AncestorLocator matches a heading element by its exact trimmed text and
// climbs a fixed number of parents to reach the container. On District the
// layout is:
//
//	<div>            <- container (Levels: 2)
//	  <div>
//	    <h1>Tickets on sale</h1>
//	    ...
//	  </div>
//	</div>
type AncestorLocator struct {
	Tag    string
	Levels int
	Log    *logger.Logger
}

// NewAncestorLocator returns the locator matching District's markup
func NewAncestorLocator(log *logger.Logger) AncestorLocator {
	return AncestorLocator{Tag: "h1", Levels: 2, Log: log}
}

// Locate implements SectionLocator
func (l AncestorLocator) Locate(doc *goquery.Document, heading string) (container *goquery.Selection, found bool) {
	defer func() {
		if r := recover(); r != nil {
			l.Log.Error("Error finding section container", logger.Fields{"heading": heading}, fmt.Errorf("%v", r))
			container, found = nil, false
		}
	}()

	if doc == nil {
		return nil, false
	}

	headingSel := doc.Find(l.Tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == heading
	}).First()
	if headingSel.Length() == 0 {
		l.Log.Debug("Heading not found", logger.Fields{"heading": heading})
		return nil, false
	}

	container = headingSel
	for level := 1; level <= l.Levels; level++ {
		container = container.Parent()
		if container.Length() == 0 {
			l.Log.Debug("Heading has too few ancestors", logger.Fields{
				"heading": heading,
				"level":   level,
			})
			return nil, false
		}
	}

	return container, true
}
