// Package dates normalizes the date strings found in review payloads.
package dates

import (
	"strings"
	"time"
)

// layouts is the fixed, ordered list of formats the target site is known to
// emit. Order matters: the first successful parse wins.
var layouts = []string{
	"2006-01-02",          // ISO date
	"02.01.2006",          // European day.month.year
	"Jan 2, 2006",         // abbreviated month
	"January 2, 2006",     // full month
	"2006-01-02 15:04:05", // ISO datetime
}

// Parse attempts each supported layout against raw after trimming whitespace.
// A string matching no layout is a normal outcome, not an error: ok is false
// and the zero time is returned.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
