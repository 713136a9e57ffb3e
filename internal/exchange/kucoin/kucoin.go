// Package kucoin implements the exchange.Driver interface against the
// KuCoin spot REST API (/api/v1).
package kucoin

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
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
	defaultBaseURL = "https://api.kucoin.com"

	candlesPath   = "/api/v1/market/candles"
	timestampPath = "/api/v1/timestamp"

	// KuCoin caps a single candles response at 1500 rows.
	maxPageSize = 1500

	// One request every 300ms keeps public endpoints happy without a key.
	requestInterval = 300 * time.Millisecond

	// Everything went fine; any other code is an upstream rejection even
	// when the HTTP status is 200.
	codeOK = "200000"
)

// knownQuotes are the quote currencies FormatSymbol recognizes when splitting
// a concatenated pair like "BTCUSDT" into KuCoin's dashed "BTC-USDT".
var knownQuotes = []string{"USDT", "USDC", "TUSD", "BUSD", "BTC", "ETH", "KCS"}

// Driver talks to the KuCoin candles API.
type Driver struct {
	baseURL string
	creds   config.KucoinConfig
	client  *exchange.Client
	now     func() time.Time // injectable clock for signature tests
}

// New builds a KuCoin driver from configuration.
//
// Requests are signed (KC-API v2 headers) only when APIKey, APISecret, and
// APIPassphrase are all present; public history works without any of them,
// credentials just raise the rate limits.
func New(cfg config.KucoinConfig, timeout time.Duration) *Driver {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Driver{
		baseURL: strings.TrimRight(base, "/"),
		creds:   cfg,
		client:  exchange.NewClient("kucoin", timeout, rate.NewLimiter(rate.Every(requestInterval), 1)),
		now:     time.Now,
	}
}

// Name implements exchange.Driver.
func (d *Driver) Name() string { return "kucoin" }

// MaxPageSize implements exchange.Driver.
func (d *Driver) MaxPageSize() int { return maxPageSize }

// FormatSymbol normalizes a user-typed pair to KuCoin's dashed form.
//
// "BTCUSDT" becomes "BTC-USDT" by matching a known quote currency suffix;
// pairs that already contain a dash pass through; anything unmatched falls
// back to splitting off the last three characters.
func (d *Driver) FormatSymbol(pair string) string {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	pair = strings.ReplaceAll(pair, "/", "-")
	if strings.Contains(pair, "-") {
		return pair
	}
	for _, quote := range knownQuotes {
		if strings.HasSuffix(pair, quote) && len(pair) > len(quote) {
			return pair[:len(pair)-len(quote)] + "-" + quote
		}
	}
	if len(pair) > 3 {
		return pair[:len(pair)-3] + "-" + pair[len(pair)-3:]
	}
	return pair
}

// intervalCodes maps canonical intervals to KuCoin type codes.
var intervalCodes = map[models.Interval]string{
	models.Interval1m:  "1min",
	models.Interval5m:  "5min",
	models.Interval15m: "15min",
	models.Interval30m: "30min",
	models.Interval1h:  "1hour",
	models.Interval4h:  "4hour",
	models.Interval1d:  "1day",
	models.Interval1w:  "1week",
}

// envelope is KuCoin's uniform response wrapper. Errors often come back with
// HTTP 200 and a non-OK code, so the code field must always be checked.
type envelope struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// FetchPage implements exchange.Driver.
//
// Wire format: each row is a string array
// [unixSeconds, open, close, high, low, volume, turnover] (note the
// open/close/high/low order) and rows arrive newest first. The result is
// remapped and reversed to ascending open time.
func (d *Driver) FetchPage(ctx context.Context, req exchange.PageRequest) ([]models.Candle, error) {
	code, ok := intervalCodes[req.Interval]
	if !ok {
		return nil, fmt.Errorf("kucoin: unsupported interval %q", req.Interval)
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("type", code)
	params.Set("startAt", strconv.FormatInt(req.Start.Unix(), 10))
	// endAt is exclusive on the wire; nudge past the last wanted bucket
	params.Set("endAt", strconv.FormatInt(req.End.Unix()+1, 10))

	pathWithQuery := candlesPath + "?" + params.Encode()

	var env envelope
	if err := d.client.GetJSON(ctx, d.baseURL+pathWithQuery, d.sign(pathWithQuery), &env); err != nil {
		return nil, err
	}
	if env.Code != codeOK {
		return nil, &exchange.APIError{Exchange: "kucoin", Code: env.Code, Message: env.Msg}
	}

	candles := make([]models.Candle, 0, len(env.Data))
	for _, row := range env.Data {
		c, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("kucoin: malformed candle row: %w", err)
		}
		candles = append(candles, c)
	}

	// newest-first on the wire
	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	return candles, nil
}

// HealthCheck implements exchange.Driver via GET /api/v1/timestamp.
func (d *Driver) HealthCheck(ctx context.Context) error {
	var env struct {
		Code string `json:"code"`
	}
	if err := d.client.GetJSON(ctx, d.baseURL+timestampPath, nil, &env); err != nil {
		return err
	}
	if env.Code != codeOK {
		return &exchange.APIError{Exchange: "kucoin", Code: env.Code, Message: "timestamp probe rejected"}
	}
	return nil
}

// CloseIdleConnections releases kept-alive connections; used on shutdown.
func (d *Driver) CloseIdleConnections() { d.client.CloseIdleConnections() }

// sign produces KC-API v2 authentication headers for a GET request, or nil
// when credentials are not fully configured.
//
// Scheme: KC-API-SIGN is base64(HMAC-SHA256(timestamp + method + pathWithQuery))
// keyed by the API secret; the passphrase is HMAC'd the same way.
func (d *Driver) sign(pathWithQuery string) http.Header {
	if d.creds.APIKey == "" || d.creds.APISecret == "" || d.creds.APIPassphrase == "" {
		return nil
	}

	ts := strconv.FormatInt(d.now().UnixMilli(), 10)

	h := http.Header{}
	h.Set("KC-API-KEY", d.creds.APIKey)
	h.Set("KC-API-SIGN", hmacB64(d.creds.APISecret, ts+http.MethodGet+pathWithQuery))
	h.Set("KC-API-TIMESTAMP", ts)
	h.Set("KC-API-PASSPHRASE", hmacB64(d.creds.APISecret, d.creds.APIPassphrase))
	h.Set("KC-API-KEY-VERSION", "2")
	return h
}

func hmacB64(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// parseRow converts one candle row into a Candle. Column 5 is base-asset
// volume and column 6 turnover; only volume is kept.
func parseRow(row []string) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}

	secs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}

	// wire order: open, close, high, low
	vals := make([]decimal.Decimal, 5)
	for i, s := range row[1:6] {
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = dec
	}

	return models.Candle{
		OpenTime: time.Unix(secs, 0).UTC(),
		Open:     vals[0],
		Close:    vals[1],
		High:     vals[2],
		Low:      vals[3],
		Volume:   vals[4],
	}, nil
}
