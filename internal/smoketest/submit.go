package smoketest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/vokasi/pkg/logger"
)

const workerChannelMultiplier = 2

// submitRecords posts records concurrently and returns one result per
// record, in input order.
func submitRecords(ctx context.Context, cfg *Config, c *HTTPClient, records []Record, unknown []bool, stats *Stats) []Result {
	log := logger.Get()
	log.Info(ctx, "submitting records", logger.Int("records", len(records)), logger.Int("workers", cfg.Workers))

	results := make([]Result, len(records))
	var submitted, failed int64

	jobs := make(chan int, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = submitOne(ctx, c, records[i])
				results[i].Unknown = unknown[i]
				atomic.AddInt64(&submitted, 1)
				if results[i].Status != 200 {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "request failed",
							logger.Int("index", i),
							logger.Int("status", results[i].Status),
							logger.String("error", results[i].Err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range records {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Successful = stats.Submitted - stats.Failed
	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed))
	return results[:stats.Submitted:stats.Submitted]
}

func submitOne(ctx context.Context, c *HTTPClient, rec Record) Result {
	r := Result{Record: rec, At: time.Now().UTC()}
	start := time.Now()
	status, body, err := c.post(ctx, "/api/predict", rec)
	r.Latency = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		r.Err = err.Error()
		return r
	}
	parsePrediction(&r, status, body)
	return r
}
