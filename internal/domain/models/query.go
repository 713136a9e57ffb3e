package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateOrder is returned by Query.Validate when the requested end date
// precedes the start date.
var ErrDateOrder = errors.New("end date must not precede start date")

// Query describes one export request: which pair, which bucket size, and
// which date range.
//
// A Query is built from user input (form, API query string, or CLI flags),
// validated once, and then treated as immutable by the fetcher and the
// exporter. It carries no exchange-specific symbol formatting; drivers
// normalize the symbol themselves.
type Query struct {
	Symbol   string    // trading pair as the user typed it (e.g. "BTCUSDT", "btc-usdt")
	Interval Interval  // canonical candle interval
	Start    time.Time // inclusive range start, UTC
	End      time.Time // inclusive range end, UTC
}

// Normalize trims and uppercases the symbol and forces the range into UTC.
// Returns the normalized copy; the receiver is not modified.
func (q Query) Normalize() Query {
	q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
	if !q.Start.IsZero() {
		q.Start = q.Start.UTC()
	}
	if !q.End.IsZero() {
		q.End = q.End.UTC()
	}
	return q
}

// Validate checks the query before any network call is made.
//
// Rules:
//   - symbol must be non-empty,
//   - interval must be one of the canonical set,
//   - both dates must be set and End must not precede Start,
//   - Start must not lie in the future (there is no history there).
//
// Returns nil when the query is exportable.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Symbol) == "" {
		return errors.New("trading pair is required")
	}
	if !q.Interval.Valid() {
		return fmt.Errorf("unsupported interval %q (supported: %s)", q.Interval, supportedList())
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return errors.New("start and end dates are required")
	}
	if q.End.Before(q.Start) {
		return ErrDateOrder
	}
	if q.Start.After(time.Now().UTC()) {
		return errors.New("start date cannot be in the future")
	}
	return nil
}

// String renders the query for logs and error messages.
func (q Query) String() string {
	return fmt.Sprintf("%s %s %s..%s",
		q.Symbol, q.Interval,
		q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"))
}
