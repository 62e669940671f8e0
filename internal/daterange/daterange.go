// Package daterange turns preset and custom date selections into the ISO-8601
// startDate/endDate strings list endpoints accept.
package daterange

import (
	"fmt"
	"time"
)

// Layout is UTC ISO-8601 with milliseconds, e.g. 2024-01-31T23:59:59.000Z.
const Layout = "2006-01-02T15:04:05.000Z07:00"

const dayLayout = "2006-01-02"

// Presets are the day counts offered for relative ranges.
var Presets = []int{7, 30, 90, 365}

type Range struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// LastDays computes start = now - days*24h and end = now.
func LastDays(now time.Time, days int) (Range, error) {
	if days <= 0 {
		return Range{}, fmt.Errorf("days must be positive, got %d", days)
	}
	start := now.Add(-time.Duration(days) * 24 * time.Hour)
	return Range{StartDate: format(start), EndDate: format(now)}, nil
}

// Custom parses two calendar days (YYYY-MM-DD) in loc. The start is midnight and
// the end is inclusive through 23:59:59 of its day.
func Custom(start, end string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(dayLayout, start, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parse start date: %w", err)
	}
	e, err := time.ParseInLocation(dayLayout, end, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parse end date: %w", err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	e = time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, loc)
	return Range{StartDate: format(s), EndDate: format(e)}, nil
}

// IsPreset reports whether days is one of Presets.
func IsPreset(days int) bool {
	for _, p := range Presets {
		if p == days {
			return true
		}
	}
	return false
}
