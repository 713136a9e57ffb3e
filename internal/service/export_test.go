package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
)

// fakeDriver serves one synthetic candle per interval in the requested window.
type fakeDriver struct {
	name  string
	calls int
}

func (f *fakeDriver) Name() string                          { return f.name }
func (f *fakeDriver) FormatSymbol(pair string) string       { return pair }
func (f *fakeDriver) MaxPageSize() int                      { return 1000 }
func (f *fakeDriver) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeDriver) FetchPage(ctx context.Context, req exchange.PageRequest) ([]models.Candle, error) {
	f.calls++
	step := req.Interval.Duration()
	var out []models.Candle
	for ts := req.Start; !ts.After(req.End); ts = ts.Add(step) {
		one := decimal.NewFromInt(1)
		out = append(out, models.Candle{OpenTime: ts, Open: one, High: one, Low: one, Close: one, Volume: one})
	}
	return out, nil
}

func newTestService() (ExportService, *fakeDriver, *fakeDriver) {
	bnc := &fakeDriver{name: "binance"}
	kcn := &fakeDriver{name: "kucoin"}
	svc := NewExportService("binance", map[string]exchange.Driver{
		"binance": bnc,
		"kucoin":  kcn,
	})
	return svc, bnc, kcn
}

func validQuery() models.Query {
	return models.Query{
		Symbol:   "BTCUSDT",
		Interval: models.Interval1d,
		Start:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestSeries_DefaultExchange(t *testing.T) {
	svc, bnc, kcn := newTestService()

	series, err := svc.Series(context.Background(), "", validQuery(), nil)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("len=%d want 5", len(series))
	}
	if bnc.calls != 1 || kcn.calls != 0 {
		t.Fatalf("default routing wrong: binance=%d kucoin=%d", bnc.calls, kcn.calls)
	}
}

func TestSeries_NamedExchange(t *testing.T) {
	svc, bnc, kcn := newTestService()

	if _, err := svc.Series(context.Background(), " KuCoin ", validQuery(), nil); err != nil {
		t.Fatalf("Series: %v", err)
	}
	if bnc.calls != 0 || kcn.calls != 1 {
		t.Fatalf("named routing wrong: binance=%d kucoin=%d", bnc.calls, kcn.calls)
	}
}

func TestSeries_UnknownExchange(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Series(context.Background(), "bitfinex", validQuery(), nil)
	if !errors.Is(err, ErrUnknownExchange) {
		t.Fatalf("expected ErrUnknownExchange, got %v", err)
	}
}

func TestWorkbook(t *testing.T) {
	svc, _, _ := newTestService()

	wb, filename, err := svc.Workbook(context.Background(), "", validQuery())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	if filename != "BTCUSDT_1d_20230101_20230105.xlsx" {
		t.Fatalf("filename=%q", filename)
	}
	rows, err := wb.GetRows("BTCUSDT_1d")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows=%d want 6", len(rows))
	}
}

func TestWorkbook_ValidationError(t *testing.T) {
	svc, bnc, _ := newTestService()

	q := validQuery()
	q.Start, q.End = q.End, q.Start
	_, _, err := svc.Workbook(context.Background(), "", q)
	if !errors.Is(err, models.ErrDateOrder) {
		t.Fatalf("expected ErrDateOrder, got %v", err)
	}
	if bnc.calls != 0 {
		t.Fatalf("invalid query must not reach the driver")
	}
}

func TestExchanges_DefaultFirst(t *testing.T) {
	svc, _, _ := newTestService()

	got := svc.Exchanges()
	if len(got) != 2 || got[0] != "binance" {
		t.Fatalf("Exchanges()=%v", got)
	}
}
