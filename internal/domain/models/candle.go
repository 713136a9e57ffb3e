package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle represents one k-line bucket as returned by an exchange.
//
// Fields:
//   - OpenTime: start of the bucket, always UTC.
//   - Open, High, Low, Close: prices for the bucket.
//   - Volume: traded base-asset quantity in the bucket.
//
// Prices and volumes arrive from both exchanges as decimal strings; they are
// kept as decimals so no precision is invented or lost before export. A
// Candle is never mutated after creation and has no identity beyond its
// OpenTime.
type Candle struct {
	OpenTime time.Time       `json:"time"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
}
