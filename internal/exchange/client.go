package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/ekremrn/crypto-excel-export/internal/logger"
)

const (
	maxRetries        = 3
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
	maxErrorBodySize  = 4 << 10
)

// Client is the HTTP client shared by the exchange drivers.
//
// Every request goes through a per-exchange rate limiter and a bounded
// exponential-backoff retry:
//   - network failures, 5xx, and 429 responses are retried (up to maxRetries
//     attempts, honoring Retry-After on 429),
//   - any other 4xx is permanent and surfaces immediately as an *APIError,
//   - retry exhaustion surfaces the last error.
//
// The fetch loop above never retries a failed page itself.
type Client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a Client for one exchange.
//
// Parameters:
//   - name: exchange name, used in errors and logs.
//   - timeout: per-request timeout.
//   - limiter: request pacing; every call waits on it before dialing.
func NewClient(name string, timeout time.Duration, limiter *rate.Limiter) *Client {
	return &Client{
		name: name,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
	}
}

// GetJSON performs a GET against url and decodes a 2xx response body into out.
//
// Parameters:
//   - ctx: cancels waiting, retrying, and the requests themselves.
//   - url: full request URL including query string.
//   - header: extra headers (API keys, signatures); may be nil.
//   - out: decode target for the response body.
//
// Returns:
//   - error: *APIError for upstream rejections, otherwise a wrapped transport
//     or decode error.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.getOnce(ctx, url, header, out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryDelay
	bo.MaxInterval = maxRetryDelay

	retries := backoff.WithMaxRetries(bo, maxRetries-1)
	return backoff.Retry(op, backoff.WithContext(retries, ctx))
}

// CloseIdleConnections releases kept-alive connections; used on shutdown.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

func (c *Client) getOnce(ctx context.Context, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// transport errors are retryable
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", c.name, err))
		}
		return nil
	}

	apiErr := c.errorFromResponse(resp)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.waitRetryAfter(ctx, resp)
		return apiErr
	case resp.StatusCode >= 500:
		return apiErr
	default:
		return backoff.Permanent(apiErr)
	}
}

// errorFromResponse builds an *APIError from a non-2xx response, decoding
// the exchange's error envelope when one is present.
func (c *Client) errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		Exchange: c.name,
		Status:   resp.StatusCode,
		Message:  resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}

	// Binance: {"code":-1121,"msg":"Invalid symbol."}
	// KuCoin:  {"code":"400100","msg":"..."}
	var envelope struct {
		Code    json.RawMessage `json:"code"`
		Msg     string          `json:"msg"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if len(envelope.Code) > 0 {
		code := string(envelope.Code)
		if unq, err := strconv.Unquote(code); err == nil {
			code = unq
		}
		apiErr.Code = code
	}
	if envelope.Msg != "" {
		apiErr.Message = envelope.Msg
	} else if envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}

// waitRetryAfter blocks for the duration a 429 response asked for, if any,
// so the following backoff attempt does not immediately trip the limit again.
func (c *Client) waitRetryAfter(ctx context.Context, resp *http.Response) {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return
	}
	d := time.Duration(secs) * time.Second
	lg := logger.With(c.name)
	lg.Warn().Dur("retry_after", d).Msg("rate limited by exchange")

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
