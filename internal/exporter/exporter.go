// Package exporter serializes a candle series into a styled xlsx workbook.
package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	// Excel rejects sheet names longer than 31 characters.
	maxSheetNameLen = 31
	// symbols are truncated before composing the sheet name
	maxSymbolLen = 15

	timeColumnWidth = 20
	maxColumnWidth  = 50

	timeNumFmt = "yyyy-mm-dd hh:mm:ss"
)

// headers are the column names, one column per Candle field.
var headers = []string{"time", "open", "high", "low", "close", "volume"}

// Workbook builds an xlsx workbook for the series.
//
// Layout:
//   - one sheet named "{SYMBOL}_{interval}" (clamped to Excel's limits),
//   - a styled header row (bold, wrapped, green fill, thin border),
//   - one row per candle with a real date cell and numeric price cells,
//   - column widths fitted to content.
//
// An empty series is not an error; it yields a workbook with the header row
// only. Callers stream the result with File.Write / File.WriteTo and must
// Close it when done.
func Workbook(series []models.Candle, q models.Query) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := SheetName(q)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := writeHeader(f, sheet); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheet, series); err != nil {
		return nil, err
	}
	if err := fitColumns(f, sheet, series); err != nil {
		return nil, err
	}
	return f, nil
}

// SheetName composes the single sheet's name from the query.
func SheetName(q models.Query) string {
	symbol := q.Symbol
	if len(symbol) > maxSymbolLen {
		symbol = symbol[:maxSymbolLen]
	}
	name := symbol + "_" + q.Interval.String()
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	// excelize additionally rejects a handful of characters
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
}

// Filename composes the download filename for the query,
// e.g. "BTCUSDT_1d_20230101_20230105.xlsx".
func Filename(q models.Query) string {
	return fmt.Sprintf("%s_%s_%s_%s.xlsx",
		q.Symbol, q.Interval,
		q.Start.Format("20060102"), q.End.Format("20060102"))
}

func writeHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D7E4BC"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style header %q: %w", h, err)
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, series []models.Candle) error {
	if len(series) == 0 {
		return nil
	}

	fmtStr := timeNumFmt
	timeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return fmt.Errorf("time style: %w", err)
	}

	for i, c := range series {
		row := i + 2
		timeCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, timeCell, c.OpenTime); err != nil {
			return fmt.Errorf("row %d time: %w", row, err)
		}
		if err := f.SetCellStyle(sheet, timeCell, timeCell, timeStyle); err != nil {
			return fmt.Errorf("row %d time style: %w", row, err)
		}

		// xlsx numeric cells are IEEE doubles; the decimals are exact up to
		// that representation
		values := []float64{
			c.Open.InexactFloat64(),
			c.High.InexactFloat64(),
			c.Low.InexactFloat64(),
			c.Close.InexactFloat64(),
			c.Volume.InexactFloat64(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+2, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("row %d col %d: %w", row, j+2, err)
			}
		}
	}
	return nil
}

// fitColumns widens each column to its longest cell text plus padding,
// capped at maxColumnWidth. The time column gets a fixed width matching its
// number format.
func fitColumns(f *excelize.File, sheet string, series []models.Candle) error {
	if err := f.SetColWidth(sheet, "A", "A", timeColumnWidth); err != nil {
		return fmt.Errorf("time column width: %w", err)
	}

	for i := 1; i < len(headers); i++ {
		maxLen := len(headers[i])
		for _, c := range series {
			var s string
			switch i {
			case 1:
				s = c.Open.String()
			case 2:
				s = c.High.String()
			case 3:
				s = c.Low.String()
			case 4:
				s = c.Close.String()
			case 5:
				s = c.Volume.String()
			}
			if len(s) > maxLen {
				maxLen = len(s)
			}
		}

		width := float64(maxLen + 2)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}
	return nil
}
