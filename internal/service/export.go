package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
	"github.com/ekremrn/crypto-excel-export/internal/exporter"
	"github.com/ekremrn/crypto-excel-export/internal/fetcher"
)

// ErrUnknownExchange is returned when a request names an exchange no driver
// is registered for.
var ErrUnknownExchange = errors.New("unknown exchange")

// ExportService is the orchestration layer between the HTTP/CLI surfaces and
// the fetchers. It resolves which exchange a request targets, runs the fetch,
// and (for Workbook) serializes the result.
type ExportService interface {
	// Series fetches the full candle series for q from the named exchange.
	// An empty exchangeName selects the configured default. onProgress may
	// be nil.
	Series(ctx context.Context, exchangeName string, q models.Query, onProgress func(fetcher.Progress)) ([]models.Candle, error)

	// Workbook fetches the series and serializes it into an xlsx workbook.
	// Returns the workbook and its download filename. An empty series yields
	// a headers-only workbook, not an error.
	Workbook(ctx context.Context, exchangeName string, q models.Query) (*excelize.File, string, error)

	// Exchanges lists the registered exchange names, default first.
	Exchanges() []string
}

type exportService struct {
	defaultExchange string
	fetchers        map[string]*fetcher.Service
}

// NewExportService builds the service over a set of drivers keyed by name.
func NewExportService(defaultExchange string, drivers map[string]exchange.Driver) ExportService {
	fetchers := make(map[string]*fetcher.Service, len(drivers))
	for name, drv := range drivers {
		fetchers[name] = fetcher.New(drv)
	}
	return &exportService{
		defaultExchange: defaultExchange,
		fetchers:        fetchers,
	}
}

func (s *exportService) Series(ctx context.Context, exchangeName string, q models.Query, onProgress func(fetcher.Progress)) ([]models.Candle, error) {
	f, err := s.resolve(exchangeName)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, q, onProgress)
}

func (s *exportService) Workbook(ctx context.Context, exchangeName string, q models.Query) (*excelize.File, string, error) {
	series, err := s.Series(ctx, exchangeName, q, nil)
	if err != nil {
		return nil, "", err
	}

	q = q.Normalize()
	wb, err := exporter.Workbook(series, q)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}
	return wb, exporter.Filename(q), nil
}

func (s *exportService) Exchanges() []string {
	out := make([]string, 0, len(s.fetchers))
	if _, ok := s.fetchers[s.defaultExchange]; ok {
		out = append(out, s.defaultExchange)
	}
	for name := range s.fetchers {
		if name != s.defaultExchange {
			out = append(out, name)
		}
	}
	return out
}

// resolve picks the fetcher for an exchange name, falling back to the
// default when the name is empty.
func (s *exportService) resolve(name string) (*fetcher.Service, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = s.defaultExchange
	}
	f, ok := s.fetchers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExchange, name)
	}
	return f, nil
}
