package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
)

// stubDriver serves candles from a synthetic continuous history, honoring a
// configurable page cap, and records every page request it sees.
type stubDriver struct {
	pageCap   int
	overlap   int   // rows from before the window to prepend (page boundary overlap)
	err       error // returned by FetchPage when set
	noAdvance bool  // always return a row at the window start only
	calls     []exchange.PageRequest
}

func (s *stubDriver) Name() string                          { return "stub" }
func (s *stubDriver) FormatSymbol(pair string) string       { return pair }
func (s *stubDriver) MaxPageSize() int                      { return s.pageCap }
func (s *stubDriver) HealthCheck(ctx context.Context) error { return nil }

func (s *stubDriver) FetchPage(ctx context.Context, req exchange.PageRequest) ([]models.Candle, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}

	step := req.Interval.Duration()
	if s.noAdvance {
		return []models.Candle{candleAt(req.Start.Add(-step))}, nil
	}

	var out []models.Candle
	for i := s.overlap; i > 0; i-- {
		out = append(out, candleAt(req.Start.Add(-time.Duration(i)*step)))
	}
	for ts := req.Start; !ts.After(req.End) && len(out) < s.pageCap; ts = ts.Add(step) {
		out = append(out, candleAt(ts))
	}
	return out, nil
}

func candleAt(ts time.Time) models.Candle {
	price := decimal.NewFromInt(ts.Unix() % 100000)
	return models.Candle{OpenTime: ts, Open: price, High: price, Low: price, Close: price, Volume: price}
}

func dailyQuery(start, end time.Time) models.Query {
	return models.Query{Symbol: "BTCUSDT", Interval: models.Interval1d, Start: start, End: end}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFetch_FiveDailyCandles(t *testing.T) {
	drv := &stubDriver{pageCap: 1000}
	svc := New(drv)

	series, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 1), day(2023, 1, 5)), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("len=%d want 5", len(series))
	}
	for i, c := range series {
		want := day(2023, 1, 1+i)
		if !c.OpenTime.Equal(want) {
			t.Fatalf("candle %d open time %v want %v", i, c.OpenTime, want)
		}
	}
	if len(drv.calls) != 1 {
		t.Fatalf("expected a single page request, got %d", len(drv.calls))
	}
}

func TestFetch_MultiPageRange(t *testing.T) {
	// 2000 daily candles against a 500-row page cap: 4 sequential pages,
	// one contiguous deduplicated series.
	drv := &stubDriver{pageCap: 500}
	svc := New(drv)

	start := day(2017, 1, 1)
	end := start.AddDate(0, 0, 1999)

	var reports []Progress
	series, err := svc.Fetch(context.Background(), dailyQuery(start, end), func(p Progress) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(series) != 2000 {
		t.Fatalf("len=%d want 2000", len(series))
	}
	if len(drv.calls) != 4 {
		t.Fatalf("pages=%d want 4", len(drv.calls))
	}

	// pages must be sequential and non-overlapping
	for i := 1; i < len(drv.calls); i++ {
		if !drv.calls[i].Start.After(drv.calls[i-1].End.Add(-24 * time.Hour)) {
			t.Fatalf("page %d starts before previous ended: %v <= %v", i, drv.calls[i].Start, drv.calls[i-1].End)
		}
	}

	// contiguity and strict ascending order
	for i := 1; i < len(series); i++ {
		if got := series[i].OpenTime.Sub(series[i-1].OpenTime); got != 24*time.Hour {
			t.Fatalf("gap at %d: %v", i, got)
		}
	}

	if len(reports) != 4 {
		t.Fatalf("progress reports=%d want 4", len(reports))
	}
	final := reports[len(reports)-1]
	if final.Page != 4 || final.Fraction != 1 {
		t.Fatalf("final progress: %+v", final)
	}
}

func TestFetch_DeduplicatesPageOverlap(t *testing.T) {
	// every page repeats the 2 rows before its window, as overlapping page
	// boundaries do on real exchanges
	drv := &stubDriver{pageCap: 100, overlap: 2}
	svc := New(drv)

	series, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 1), day(2023, 6, 30)), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	seen := map[time.Time]bool{}
	for _, c := range series {
		if seen[c.OpenTime] {
			t.Fatalf("duplicate open time %v", c.OpenTime)
		}
		seen[c.OpenTime] = true
	}
	if want := 181; len(series) != want { // Jan 1 .. Jun 30
		t.Fatalf("len=%d want %d", len(series), want)
	}
	if series[0].OpenTime.Before(day(2023, 1, 1)) {
		t.Fatalf("overlap rows before range not clipped: %v", series[0].OpenTime)
	}
}

func TestFetch_InvalidQuerySkipsNetwork(t *testing.T) {
	drv := &stubDriver{pageCap: 500}
	svc := New(drv)

	_, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 5), day(2023, 1, 1)), nil)
	if !errors.Is(err, models.ErrDateOrder) {
		t.Fatalf("expected ErrDateOrder, got %v", err)
	}
	if len(drv.calls) != 0 {
		t.Fatalf("invalid query must not hit the network, got %d calls", len(drv.calls))
	}
}

func TestFetch_DriverErrorAborts(t *testing.T) {
	apiErr := &exchange.APIError{Exchange: "stub", Status: 400, Code: "-1121", Message: "Invalid symbol."}
	drv := &stubDriver{pageCap: 500, err: apiErr}
	svc := New(drv)

	_, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 1), day(2023, 1, 5)), nil)
	var got *exchange.APIError
	if !errors.As(err, &got) {
		t.Fatalf("driver error not surfaced: %v", err)
	}
	if len(drv.calls) != 1 {
		t.Fatalf("fetch loop must not retry a failed page, got %d calls", len(drv.calls))
	}
}

func TestFetch_StopsWhenCursorStalls(t *testing.T) {
	drv := &stubDriver{pageCap: 500, noAdvance: true}
	svc := New(drv)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 1), day(2023, 12, 31)), nil)
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("fetch loop did not terminate on stalled cursor")
	}
	if len(drv.calls) != 1 {
		t.Fatalf("expected a single page before stopping, got %d", len(drv.calls))
	}
}

func TestFetch_EmptyHistory(t *testing.T) {
	drv := &stubDriver{pageCap: 0} // pageCap 0 yields no rows
	svc := New(drv)

	series, err := svc.Fetch(context.Background(), dailyQuery(day(2023, 1, 1), day(2023, 1, 5)), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(series) != 0 {
		t.Fatalf("expected empty series, got %d", len(series))
	}
}
