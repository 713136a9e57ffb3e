package models

import (
	"fmt"
	"strings"
	"time"
)

// Interval is a candle bucket size in the canonical short form used by the
// HTTP API, the CLI, and the export form (e.g. "5m", "1h", "1d").
//
// The canonical set matches what both supported exchanges can serve. Each
// exchange driver translates an Interval into its own wire code; this type
// only knows the canonical names and the bucket duration.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

// intervalDurations maps each canonical interval to its bucket duration.
var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval4h:  4 * time.Hour,
	Interval1d:  24 * time.Hour,
	Interval1w:  7 * 24 * time.Hour,
}

// Intervals returns the canonical intervals in ascending bucket order.
// The slice is freshly allocated; callers may reorder it.
func Intervals() []Interval {
	return []Interval{
		Interval1m, Interval5m, Interval15m, Interval30m,
		Interval1h, Interval4h, Interval1d, Interval1w,
	}
}

// ParseInterval converts user input ("1d", "1D", " 4h ") into a canonical
// Interval.
//
// Returns:
//   - Interval: the canonical value on success.
//   - error: when the input does not name a supported interval.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.ToLower(strings.TrimSpace(s)))
	if !iv.Valid() {
		return "", fmt.Errorf("unsupported interval %q (supported: %s)", s, supportedList())
	}
	return iv, nil
}

// Valid reports whether the interval is one of the canonical set.
func (i Interval) Valid() bool {
	_, ok := intervalDurations[i]
	return ok
}

// Duration returns the bucket duration of the interval.
// Unknown intervals return 0; callers should validate first.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

// String implements fmt.Stringer.
func (i Interval) String() string { return string(i) }

func supportedList() string {
	all := Intervals()
	parts := make([]string, len(all))
	for n, iv := range all {
		parts[n] = string(iv)
	}
	return strings.Join(parts, ", ")
}
