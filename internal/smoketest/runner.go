package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/vokasi/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a complete smoke run against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting prediction smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Float64("unknownRatio", cfg.UnknownRatio))

	if cfg.Requests <= 0 || cfg.Workers <= 0 {
		return stats, fmt.Errorf("requests and workers must be positive")
	}

	c := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	cat, err := fetchCatalog(ctx, c)
	if err != nil {
		return stats, err
	}

	records, unknown := generateRecords(cat, cfg.Requests, cfg.Seed, cfg.UnknownRatio)
	stats.Generated = len(records)

	results := submitRecords(ctx, cfg, c, records, unknown, stats)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("run cancelled: %w", err)
	}

	if cfg.OutputFile != "" {
		if err := saveResults(cfg.OutputFile, results); err != nil {
			log.Warn(ctx, "failed to save results", logger.Error(err))
		}
	}

	if err := verifyResults(ctx, results, stats); err != nil {
		return stats, err
	}
	if err := verifyDeterminism(ctx, c, results, cfg.Repeat, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, c *HTTPClient) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

func saveResults(filename string, results []Result) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("withDrops", stats.WithDrops),
		logger.Int("repeated", stats.Repeated),
		logger.Float64("minValue", stats.MinValue),
		logger.Float64("maxValue", stats.MaxValue),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("requestsPerSecond", perSecond))
}
