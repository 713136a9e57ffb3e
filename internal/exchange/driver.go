package exchange

import (
	"context"
	"time"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
)

// PageRequest asks a driver for one page of candles.
//
// Start and End are inclusive bucket open times; the caller sizes the window
// so the page fits under the driver's MaxPageSize. Symbol must already be in
// the exchange's native form (see Driver.FormatSymbol).
type PageRequest struct {
	Symbol   string
	Interval models.Interval
	Start    time.Time
	End      time.Time
}

// Driver is one exchange's k-line API.
//
// Implementations live in the binance and kucoin subpackages. A Driver is
// stateless apart from its HTTP client and safe for concurrent use; the
// fetch loop on top of it is strictly sequential per export.
type Driver interface {
	// Name returns the lowercase exchange name ("binance", "kucoin").
	Name() string

	// FormatSymbol normalizes a user-typed pair into the exchange's native
	// symbol form (Binance "BTCUSDT", KuCoin "BTC-USDT").
	FormatSymbol(pair string) string

	// MaxPageSize returns the exchange's per-request candle cap.
	MaxPageSize() int

	// FetchPage returns the candles in [req.Start, req.End], ascending by
	// open time regardless of the exchange's wire order. An empty slice
	// means the exchange has no data in the window.
	FetchPage(ctx context.Context, req PageRequest) ([]models.Candle, error)

	// HealthCheck performs a lightweight unauthenticated ping.
	HealthCheck(ctx context.Context) error
}
