// Package scraper fetches a ticket listing page and extracts the booking status
// of one match from it.
//
// Listing pages have no machine-readable structure per event. Extraction is a
// layered heuristic: locate the section under a known heading, split its text
// into per-event fragments on status keywords, then apply a date/time/status
// pattern to the fragment naming the match. Every step degrades to "not found"
// rather than failing the check.
//
// Concrete sites are registered by platform name; see Register and New.
package scraper
