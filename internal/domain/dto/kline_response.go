package dto

import (
	"time"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
)

// CandleDTO is the wire form of one candle in JSON responses.
//
// Prices and volume serialize as decimal strings so clients never see
// float rounding artifacts.
type CandleDTO struct {
	Time   time.Time `json:"time" example:"2023-01-01T00:00:00Z"`
	Open   string    `json:"open" example:"16541.77"`
	High   string    `json:"high" example:"16628.00"`
	Low    string    `json:"low" example:"16499.01"`
	Close  string    `json:"close" example:"16616.75"`
	Volume string    `json:"volume" example:"96925.41374"`
}

// KlinesResponse is returned by GET /api/v1/klines.
//
// Count always reflects the full fetched series; Candles may be truncated
// to the requested preview limit.
type KlinesResponse struct {
	Exchange string      `json:"exchange" example:"binance"`
	Symbol   string      `json:"symbol" example:"BTCUSDT"`
	Interval string      `json:"interval" example:"1d"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Count    int         `json:"count" example:"5"`
	Candles  []CandleDTO `json:"candles"`
}

// NewCandleDTO converts a domain candle into its wire form.
func NewCandleDTO(c models.Candle) CandleDTO {
	return CandleDTO{
		Time:   c.OpenTime,
		Open:   c.Open.String(),
		High:   c.High.String(),
		Low:    c.Low.String(),
		Close:  c.Close.String(),
		Volume: c.Volume.String(),
	}
}

// NewCandleDTOs converts a series; a nil or empty series yields an empty,
// non-nil slice so the JSON field is always an array.
func NewCandleDTOs(series []models.Candle) []CandleDTO {
	out := make([]CandleDTO, 0, len(series))
	for _, c := range series {
		out = append(out, NewCandleDTO(c))
	}
	return out
}
