package scraper

import (
	"regexp"
	"strings"
)

// SplitFragments cuts a block of concatenated listings into one fragment per
// event, using status keywords as the event terminator.
//
// The first delimiter (in the given order) that occurs anywhere in text is
// chosen and text is split on every occurrence of it, ignoring case. Each
// non-empty piece is re-terminated with the delimiter as given. When no
// delimiter occurs, text is returned as a single fragment.
//
// Only one delimiter is used per call: a block mixing "Booking Open" and
// "Sold Out" listings is split on whichever comes first in delimiters, and
// listings ending in the other keyword stay glued to their neighbours.
func SplitFragments(text string, delimiters []string) []string {
	if text == "" {
		return nil
	}

	var (
		delimiter string
		splitter  *regexp.Regexp
	)
	for _, d := range delimiters {
		if strings.TrimSpace(d) == "" {
			continue
		}
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(d))
		if re.MatchString(text) {
			delimiter, splitter = d, re
			break
		}
	}
	if splitter == nil {
		return []string{text}
	}

	pieces := splitter.Split(text, -1)
	fragments := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		fragments = append(fragments, piece+delimiter)
	}
	return fragments
}
