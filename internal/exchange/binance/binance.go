// Package binance implements the exchange.Driver interface against the
// Binance spot REST API (/api/v3).
package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/ekremrn/crypto-excel-export/config"
	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
)

const (
	defaultBaseURL = "https://api.binance.com"
	testnetBaseURL = "https://testnet.binance.vision"

	klinesPath = "/api/v3/klines"
	pingPath   = "/api/v3/ping"

	// Binance caps a single klines response at 1000 rows.
	maxPageSize = 1000

	// Unauthenticated clients get 6000 request weight per minute; klines
	// cost weight 2, so 10 req/s stays comfortably inside it.
	requestsPerSecond = 10
)

// Driver talks to the Binance klines API.
type Driver struct {
	baseURL string
	apiKey  string
	client  *exchange.Client
}

// New builds a Binance driver from configuration.
//
// Behavior:
//   - cfg.BaseURL overrides everything (tests, proxies); otherwise
//     cfg.Testnet selects the testnet endpoint.
//   - cfg.APIKey, when set, is attached as X-MBX-APIKEY to raise the
//     request-weight allowance. Public history needs no key.
func New(cfg config.BinanceConfig, timeout time.Duration) *Driver {
	base := cfg.BaseURL
	if base == "" {
		if cfg.Testnet {
			base = testnetBaseURL
		} else {
			base = defaultBaseURL
		}
	}
	return &Driver{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  cfg.APIKey,
		client:  exchange.NewClient("binance", timeout, rate.NewLimiter(requestsPerSecond, 1)),
	}
}

// Name implements exchange.Driver.
func (d *Driver) Name() string { return "binance" }

// MaxPageSize implements exchange.Driver.
func (d *Driver) MaxPageSize() int { return maxPageSize }

// FormatSymbol normalizes a user-typed pair to Binance's concatenated form:
// "btc-usdt", "BTC/USDT", and " btcusdt " all become "BTCUSDT".
func (d *Driver) FormatSymbol(pair string) string {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	pair = strings.ReplaceAll(pair, "-", "")
	pair = strings.ReplaceAll(pair, "/", "")
	return pair
}

// intervalCodes maps canonical intervals to Binance wire codes. The names
// happen to coincide; the map still guards against future divergence.
var intervalCodes = map[models.Interval]string{
	models.Interval1m:  "1m",
	models.Interval5m:  "5m",
	models.Interval15m: "15m",
	models.Interval30m: "30m",
	models.Interval1h:  "1h",
	models.Interval4h:  "4h",
	models.Interval1d:  "1d",
	models.Interval1w:  "1w",
}

// FetchPage implements exchange.Driver.
//
// Wire format: GET /api/v3/klines returns a JSON array of arrays,
// [openTimeMs, "open", "high", "low", "close", "volume", closeTimeMs, ...];
// only the first six fields are consumed. Rows arrive oldest first.
func (d *Driver) FetchPage(ctx context.Context, req exchange.PageRequest) ([]models.Candle, error) {
	code, ok := intervalCodes[req.Interval]
	if !ok {
		return nil, fmt.Errorf("binance: unsupported interval %q", req.Interval)
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("interval", code)
	params.Set("startTime", strconv.FormatInt(req.Start.UnixMilli(), 10))
	params.Set("endTime", strconv.FormatInt(req.End.UnixMilli(), 10))
	params.Set("limit", strconv.Itoa(maxPageSize))

	var rows [][]any
	if err := d.client.GetJSON(ctx, d.baseURL+klinesPath+"?"+params.Encode(), d.headers(), &rows); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("binance: malformed kline row: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// HealthCheck implements exchange.Driver via GET /api/v3/ping.
func (d *Driver) HealthCheck(ctx context.Context) error {
	var out struct{}
	return d.client.GetJSON(ctx, d.baseURL+pingPath, nil, &out)
}

// CloseIdleConnections releases kept-alive connections; used on shutdown.
func (d *Driver) CloseIdleConnections() { d.client.CloseIdleConnections() }

func (d *Driver) headers() http.Header {
	if d.apiKey == "" {
		return nil
	}
	h := http.Header{}
	h.Set("X-MBX-APIKEY", d.apiKey)
	return h
}

// parseRow converts one mixed-type kline array into a Candle.
func parseRow(row []any) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}

	ms, ok := row[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("open time is %T, want number", row[0])
	}

	prices := make([]decimal.Decimal, 5)
	for i := 0; i < 5; i++ {
		s, ok := row[i+1].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("field %d is %T, want string", i+1, row[i+1])
		}
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		prices[i] = dec
	}

	return models.Candle{
		OpenTime: time.UnixMilli(int64(ms)).UTC(),
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		Volume:   prices[4],
	}, nil
}
