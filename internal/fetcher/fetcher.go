// Package fetcher turns one validated query into a complete candle series by
// walking an exchange driver page by page.
package fetcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
	"github.com/ekremrn/crypto-excel-export/internal/logger"
)

// Progress describes how far a running fetch has come. It is purely
// informational; dropping every report changes nothing about the result.
//
// Fields:
//   - Page: number of pages completed so far.
//   - Candles: rows accumulated so far (before deduplication).
//   - Cursor: open time the next page will start from.
//   - Fraction: share of the requested time span already covered, in [0, 1].
type Progress struct {
	Page     int
	Candles  int
	Cursor   time.Time
	Fraction float64
}

// Service fetches complete candle series from one exchange driver.
type Service struct {
	driver exchange.Driver
	log    zerolog.Logger
}

// New builds a fetch service on top of a driver.
func New(driver exchange.Driver) *Service {
	return &Service{
		driver: driver,
		log:    logger.With("fetcher").With().Str("exchange", driver.Name()).Logger(),
	}
}

// Driver exposes the underlying driver (health checks, symbol formatting).
func (s *Service) Driver() exchange.Driver { return s.driver }

// Fetch produces the full candle series for q.
//
// Behavior:
//   - Validates q first; an invalid query returns before any network call.
//   - Walks a cursor from q.Start forward, requesting one page at a time.
//     Each page window is sized to the driver's page cap, so a long range
//     takes several strictly sequential requests.
//   - Advances the cursor one interval past the last returned candle. A page
//     with zero rows, or one that fails to advance the cursor, ends the walk.
//   - Calls onProgress (if non-nil) after every page.
//   - Sorts ascending, deduplicates by open time (page boundaries can
//     overlap), and clips to [q.Start, q.End].
//
// Failure: the first driver error aborts the fetch and is returned as-is.
// Transient retry already happened inside the HTTP client; this loop never
// re-requests a failed page.
//
// Returns:
//   - []models.Candle: strictly ascending, no duplicate open times. Empty
//     (not nil-checked as an error) when the exchange has no data in range.
//   - error: validation error or the driver's error.
func (s *Service) Fetch(ctx context.Context, q models.Query, onProgress func(Progress)) ([]models.Candle, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	symbol := s.driver.FormatSymbol(q.Symbol)
	step := q.Interval.Duration()
	window := time.Duration(s.driver.MaxPageSize()-1) * step

	s.log.Info().
		Str("symbol", symbol).
		Str("interval", q.Interval.String()).
		Time("start", q.Start).
		Time("end", q.End).
		Msg("fetch start")

	var series []models.Candle
	cursor := q.Start
	page := 0

	for !cursor.After(q.End) {
		pageEnd := cursor.Add(window)
		if pageEnd.After(q.End) {
			pageEnd = q.End
		}

		rows, err := s.driver.FetchPage(ctx, exchange.PageRequest{
			Symbol:   symbol,
			Interval: q.Interval,
			Start:    cursor,
			End:      pageEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", q, err)
		}
		page++

		if len(rows) == 0 {
			// no more history in range
			break
		}
		series = append(series, rows...)

		next := rows[len(rows)-1].OpenTime.Add(step)
		if !next.After(cursor) {
			// upstream returned rows before the cursor; bail instead of looping forever
			s.log.Warn().Time("cursor", cursor).Msg("cursor did not advance, stopping")
			break
		}
		cursor = next

		s.log.Debug().Int("page", page).Int("candles", len(series)).Time("cursor", cursor).Msg("page done")
		if onProgress != nil {
			onProgress(Progress{
				Page:     page,
				Candles:  len(series),
				Cursor:   cursor,
				Fraction: fraction(q, cursor),
			})
		}
	}

	series = normalize(series, q)
	s.log.Info().Int("pages", page).Int("candles", len(series)).Msg("fetch done")
	return series, nil
}

// fraction maps the cursor position onto [0, 1] across the requested span.
func fraction(q models.Query, cursor time.Time) float64 {
	total := q.End.Sub(q.Start) + q.Interval.Duration()
	if total <= 0 {
		return 1
	}
	f := float64(cursor.Sub(q.Start)) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}

// normalize sorts ascending by open time, drops duplicate open times, and
// clips the series to [q.Start, q.End].
func normalize(series []models.Candle, q models.Query) []models.Candle {
	sort.Slice(series, func(i, j int) bool {
		return series[i].OpenTime.Before(series[j].OpenTime)
	})

	out := series[:0]
	var last time.Time
	for _, c := range series {
		if c.OpenTime.Before(q.Start) || c.OpenTime.After(q.End) {
			continue
		}
		if len(out) > 0 && c.OpenTime.Equal(last) {
			continue
		}
		out = append(out, c)
		last = c.OpenTime
	}
	return out
}
