// Package format renders view-model values for terminal output. Values arrive
// already aggregated by the server; only display rounding happens here.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Currency rounds to two decimal places.
func Currency(v float64) string {
	return "$" + strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

// Tokens abbreviates large counts: 950, 12.3K, 4.5M.
func Tokens(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case abs >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Duration renders whole seconds as "1h 5m", "5m 3s" or "45s".
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds) * time.Second
	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	s := int64((d % time.Minute) / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Percent renders a 0..1 ratio with one decimal.
func Percent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}

// Optional dereferences s, substituting fallback for nil or empty.
func Optional(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
