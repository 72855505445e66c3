package smoketest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/okian/vokasi/pkg/logger"
)

// Verification errors.
var (
	ErrRequestsFailed = errors.New("requests failed")
	ErrInconsistent   = errors.New("inconsistent responses")
)

// verifyResults checks that every response succeeded, that all feature
// vectors share one column list, and that records with unknown categories
// report dropped columns.
func verifyResults(ctx context.Context, results []Result, stats *Stats) error {
	if stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRequestsFailed, stats.Failed, stats.Submitted)
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: no results", ErrInconsistent)
	}

	columns := results[0].Columns
	stats.MinValue, stats.MaxValue = math.Inf(1), math.Inf(-1)
	for i, r := range results {
		if !slices.Equal(r.Columns, columns) {
			return fmt.Errorf("%w: result %d has columns %v, want %v", ErrInconsistent, i, r.Columns, columns)
		}
		if r.Unknown && len(r.Dropped) == 0 {
			return fmt.Errorf("%w: result %d used an unknown category but dropped nothing", ErrInconsistent, i)
		}
		if len(r.Dropped) > 0 {
			stats.WithDrops++
		}
		stats.MinValue = math.Min(stats.MinValue, r.Value)
		stats.MaxValue = math.Max(stats.MaxValue, r.Value)
	}

	logger.Get().Info(ctx, "responses consistent",
		logger.Int("columns", len(columns)),
		logger.Int("withDrops", stats.WithDrops))
	return nil
}

// verifyDeterminism re-submits the first n records and expects identical
// values.
func verifyDeterminism(ctx context.Context, c *HTTPClient, results []Result, n int, stats *Stats) error {
	n = min(n, len(results))
	for i := 0; i < n; i++ {
		again := submitOne(ctx, c, results[i].Record)
		if again.Status != 200 {
			return fmt.Errorf("%w: repeat %d: status %d: %s", ErrRequestsFailed, i, again.Status, again.Err)
		}
		if again.Value != results[i].Value {
			return fmt.Errorf("%w: record %d predicted %v then %v", ErrInconsistent, i, results[i].Value, again.Value)
		}
		stats.Repeated++
	}
	logger.Get().Info(ctx, "predictions deterministic", logger.Int("repeated", stats.Repeated))
	return nil
}
