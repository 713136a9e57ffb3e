// Package batch runs one-shot CLI exports: every symbol/interval combination
// becomes a job, jobs run with bounded parallelism, and each job writes one
// workbook to disk.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/exporter"
	"github.com/ekremrn/crypto-excel-export/internal/fetcher"
	"github.com/ekremrn/crypto-excel-export/internal/logger"
	"github.com/ekremrn/crypto-excel-export/internal/service"
)

const maxParallelCap = 8

// Options configures one batch run.
//
// Fields:
//   - Exchange: exchange name; empty selects the configured default.
//   - Symbols, Intervals: the job matrix; every combination is exported.
//   - Start, End: shared date range for all jobs.
//   - OutDir: root of the output tree ({OutDir}/{SYMBOL}/{interval}/{file}).
//   - OutFile: explicit output path; only valid for a single-job run.
//   - Parallel: concurrent jobs, clamped to 1..8; 0 picks min(NumCPU, 4).
//     Pagination within one job stays strictly sequential.
type Options struct {
	Exchange  string
	Symbols   []string
	Intervals []models.Interval
	Start     time.Time
	End       time.Time
	OutDir    string
	OutFile   string
	Parallel  int
}

type job struct {
	symbol   string
	interval models.Interval
}

// Run executes the batch export.
//
// Behavior:
//   - Expands Symbols × Intervals into jobs and validates the combination
//     with Options.OutFile upfront.
//   - Runs jobs through an errgroup with a semaphore sized by Parallel;
//     the first failing job cancels its siblings.
//   - Each job fetches its full series (logging per-page progress), builds
//     the workbook, and writes it under OutDir (or to OutFile).
//
// Returns:
//   - error: first error encountered (if any).
func Run(ctx context.Context, svc service.ExportService, opts Options) error {
	if len(opts.Symbols) == 0 || len(opts.Intervals) == 0 {
		return errors.New("at least one symbol and one interval are required")
	}

	var jobs []job
	for _, s := range opts.Symbols {
		for _, iv := range opts.Intervals {
			jobs = append(jobs, job{symbol: s, interval: iv})
		}
	}
	if opts.OutFile != "" && len(jobs) > 1 {
		return fmt.Errorf("--out is only valid for a single symbol/interval, got %d jobs", len(jobs))
	}

	maxParallel := opts.Parallel
	if maxParallel <= 0 {
		maxParallel = runtime.NumCPU()
		if maxParallel > 4 {
			maxParallel = 4
		}
	}
	if maxParallel > maxParallelCap {
		maxParallel = maxParallelCap
	}

	log := logger.With("batch")
	log.Info().Int("jobs", len(jobs)).Int("max_parallel", maxParallel).Msg("batch export start")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, j := range jobs {
		idx := i
		j := j
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()

			q := models.Query{
				Symbol:   j.symbol,
				Interval: j.interval,
				Start:    opts.Start,
				End:      opts.End,
			}.Normalize()

			jlog := log.With().
				Int("job", idx+1).
				Int("total", len(jobs)).
				Str("symbol", q.Symbol).
				Str("interval", q.Interval.String()).
				Logger()
			jlog.Info().Msg("job start")

			series, err := svc.Series(gctx, opts.Exchange, q, func(p fetcher.Progress) {
				jlog.Info().
					Int("page", p.Page).
					Int("candles", p.Candles).
					Float64("fraction", p.Fraction).
					Msg("job progress")
			})
			if err != nil {
				jlog.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job failed")
				return fmt.Errorf("export %s: %w", q, err)
			}

			path, err := writeWorkbook(series, q, opts)
			if err != nil {
				jlog.Error().Err(err).Msg("job write failed")
				return fmt.Errorf("export %s: %w", q, err)
			}

			jlog.Info().
				Int("candles", len(series)).
				Str("path", path).
				Dur("elapsed", time.Since(start)).
				Msg("job done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Int("jobs", len(jobs)).Msg("batch export done")
	return nil
}

// writeWorkbook serializes one job's series and saves it to its output path.
func writeWorkbook(series []models.Candle, q models.Query, opts Options) (string, error) {
	wb, err := exporter.Workbook(series, q)
	if err != nil {
		return "", fmt.Errorf("build workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	path := opts.OutFile
	if path == "" {
		dir := filepath.Join(opts.OutDir, q.Symbol, q.Interval.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(dir, exporter.Filename(q))
	}

	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
