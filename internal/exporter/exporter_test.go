package exporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
)

func sampleQuery() models.Query {
	return models.Query{
		Symbol:   "BTCUSDT",
		Interval: models.Interval1d,
		Start:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func sampleSeries(t *testing.T, n int) []models.Candle {
	t.Helper()
	dec := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("decimal %q: %v", s, err)
		}
		return d
	}
	series := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, models.Candle{
			OpenTime: time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Open:     dec("16541.77"),
			High:     dec("16628.00"),
			Low:      dec("16499.01"),
			Close:    dec("16616.75"),
			Volume:   dec("96925.41374"),
		})
	}
	return series
}

func TestWorkbook_HeaderAndRows(t *testing.T) {
	f, err := Workbook(sampleSeries(t, 5), sampleQuery())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := "BTCUSDT_1d"
	if f.GetSheetName(0) != sheet {
		t.Fatalf("sheet name %q", f.GetSheetName(0))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows=%d want 6 (header + 5)", len(rows))
	}

	wantHeader := []string{"time", "open", "high", "low", "close", "volume"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header[%d]=%q want %q", i, rows[0][i], h)
		}
	}

	// numeric cells must round-trip as numbers, not text
	openCell, err := f.GetCellValue(sheet, "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if openCell != "16541.77" {
		t.Fatalf("B2=%q", openCell)
	}
	cellType, err := f.GetCellType(sheet, "B2")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
		t.Fatalf("price cell stored as text")
	}
}

func TestWorkbook_EmptySeries(t *testing.T) {
	// an empty range is a headers-only workbook, not an error
	f, err := Workbook(nil, sampleQuery())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("BTCUSDT_1d")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d want 1 (header only)", len(rows))
	}
}

func TestSheetName(t *testing.T) {
	cases := []struct {
		symbol   string
		interval models.Interval
		want     string
	}{
		{"BTCUSDT", models.Interval1d, "BTCUSDT_1d"},
		{"VERYLONGSYMBOLNAMEXYZ", models.Interval15m, "VERYLONGSYMBOLN_15m"},
		{"BTC-USDT", models.Interval1h, "BTC-USDT_1h"},
		{"BTC/USDT", models.Interval1h, "BTC_USDT_1h"},
	}
	for _, c := range cases {
		q := models.Query{Symbol: c.symbol, Interval: c.interval}
		if got := SheetName(q); got != c.want {
			t.Fatalf("SheetName(%q, %s)=%q want %q", c.symbol, c.interval, got, c.want)
		}
		if got := SheetName(q); len(got) > maxSheetNameLen {
			t.Fatalf("sheet name %q exceeds limit", got)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(sampleQuery()); got != "BTCUSDT_1d_20230101_20230105.xlsx" {
		t.Fatalf("Filename=%q", got)
	}
}
