// Command process-day runs the full fetch-and-parse pipeline for one
// calendar day of filings and stores the results in SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cchummer/sec-api/pkg/edgar/config"
	"github.com/cchummer/sec-api/pkg/edgar/fetch"
	"github.com/cchummer/sec-api/pkg/edgar/pipeline"
	"github.com/cchummer/sec-api/pkg/edgar/store/sqlite"
)

func main() {
	var (
		dateStr    = flag.String("date", "", "day to process as YYYY-MM-DD (default: yesterday)")
		configPath = flag.String("config", "", "path to YAML config file (default: built-in defaults)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	day := time.Now().AddDate(0, 0, -1)
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Fatalf("Invalid -date value %q, want YYYY-MM-DD: %v", *dateStr, err)
		}
		day = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.New(fetch.Options{
		Limiter:     fetch.NewRateLimiter(cfg.RateLimit),
		Headers:     cfg.Headers,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: time.Duration(cfg.BackoffBase),
		CacheSize:   cfg.FetchCacheSize,
	})

	sink, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.DatabasePath, err)
	}
	defer sink.Close()

	p := pipeline.New(pipeline.Options{
		Fetcher:        fetcher,
		Sink:           sink,
		ArchiveBaseURL: cfg.ArchiveBaseURL,
		TargetTypes:    cfg.TargetTypes,
		Workers:        cfg.Workers,
	})

	summary, err := p.ProcessDay(ctx, day)
	if err != nil {
		log.Fatalf("Failed to process %s: %v", day.Format("2006-01-02"), err)
	}

	fmt.Printf("run %s for %s: fetched %d, parsed %d, skipped %d\n",
		summary.RunID, day.Format("2006-01-02"), summary.Fetched, summary.Parsed, summary.Skipped)
}
