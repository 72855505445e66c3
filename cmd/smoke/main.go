package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/vokasi/internal/smoketest"
	"github.com/okian/vokasi/pkg/logger"
)

// Default configuration constants.
const (
	defaultRequests     = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultRunTimeout   = 5 * time.Minute
	defaultUnknownRatio = 0.05
	defaultRepeat       = 20
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests  = flag.Int("requests", defaultRequests, "Number of records to submit")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed      = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for record generation")
		unknown   = flag.Float64("unknown", defaultUnknownRatio, "Share of records with a category outside the catalog")
		repeat    = flag.Int("repeat", defaultRepeat, "Records re-submitted to check determinism")
		output    = flag.String("output", "", "Write collected results to this JSON file")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		verbose   = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &smoketest.Config{
		BaseURL:      *baseURL,
		Requests:     *requests,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seed,
		UnknownRatio: *unknown,
		Repeat:       *repeat,
		OutputFile:   *output,
		Verbose:      *verbose,
	}
	if _, err := smoketest.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "smoke run failed", logger.Error(err), logger.Any("seed", *seed))
		cancel()
		os.Exit(1)
	}
}
