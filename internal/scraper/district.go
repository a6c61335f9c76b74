package scraper

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

// DistrictMonitor checks a team landing page on district.in
type DistrictMonitor struct {
	url       string
	matchID   string
	platform  config.PlatformConfig
	fetcher   Fetcher
	history   HistoryRecorder
	locator   SectionLocator
	extractor *Extractor
	log       *logger.Logger
}

// NewDistrictMonitor is the Factory registered as "district"
func NewDistrictMonitor(deps Deps) (Monitor, error) {
	locator := deps.Locator
	if locator == nil {
		locator = NewAncestorLocator(deps.Log)
	}

	return &DistrictMonitor{
		url:       deps.URL,
		matchID:   deps.MatchIdentifier,
		platform:  deps.Platform,
		fetcher:   deps.Fetcher,
		history:   deps.History,
		locator:   locator,
		extractor: NewExtractor(deps.Platform.PossibleStatuses, deps.Log),
		log:       deps.Log,
	}, nil
}

// Check fetches the page and reports the match status. Sections are tried in
// priority order, "Tickets on sale" before "Upcoming", and the first
// successful extraction wins. Every outcome except a malformed identifier or
// a canceled fetch is recorded in the history.
func (m *DistrictMonitor) Check(ctx context.Context) ticket.Result {
	result := ticket.NewResult(m.url)

	m.log.Info("Getting match info", logger.Fields{"match": m.matchID})

	if !ticket.ValidIdentifier(m.matchID) {
		result.Status = ticket.StatusInvalidFormat
		return result
	}

	m.log.Metrics().IncrCounter("checks.total")

	start := time.Now()
	body, err := m.fetcher.Fetch(ctx, m.url)
	m.log.Metrics().RecordTiming("fetch", time.Since(start))
	if err != nil && ctx.Err() != nil {
		m.log.Info("Check canceled before the page was fetched", logger.Fields{"url": m.url})
		result.Message = fmt.Sprintf("Error: Could not fetch page (%v)", ctx.Err())
		return result
	}
	if err != nil {
		m.log.Error("Error fetching page", logger.Fields{"url": m.url}, err)
		m.log.Metrics().IncrCounter("checks.fetch_failed")
		result.Message = fmt.Sprintf("Error: Could not fetch page (%v)", err)
		m.record(result)
		return result
	}

	if err := m.inspect(body, &result); err != nil {
		m.log.Error("Error processing page", logger.Fields{"url": m.url}, err)
		result.Message = fmt.Sprintf("Error: Processing failed (%v)", err)
	}

	if result.MatchDetails != nil {
		m.log.Metrics().IncrCounter("checks.found")
	} else {
		m.log.Metrics().IncrCounter("checks.not_found")
	}

	m.record(result)
	return result
}

// inspect parses body and fills result from the first section that lists
// the match
func (m *DistrictMonitor) inspect(body []byte, result *ticket.Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	onSale, onSaleFound := m.locator.Locate(doc, SectionOnSale)
	if onSaleFound && m.apply(onSale, result) {
		result.Message = ticket.MessageOnSale
		return nil
	}

	upcoming, upcomingFound := m.locator.Locate(doc, SectionUpcoming)
	if upcomingFound && m.apply(upcoming, result) {
		return nil
	}

	if !onSaleFound && !upcomingFound {
		result.Message = ticket.MessageSectionsMissing
	}
	return nil
}

func (m *DistrictMonitor) apply(section *goquery.Selection, result *ticket.Result) bool {
	details, status, found := m.extractor.ExtractFromSelection(section, m.matchID)
	if !found {
		return false
	}

	result.Status = status
	result.MatchDetails = &details
	result.Notify = m.platform.ShouldNotify(status)
	return true
}

// record persists the result; failures are logged and never fail the check
func (m *DistrictMonitor) record(result ticket.Result) {
	if err := m.history.Record(result.Status, result.MatchDetails); err != nil {
		m.log.Error("Error saving status history", logger.Fields{"status": result.Status}, err)
	}
}
