// Command ingest searches the catalog and runs the selected results through the ingestion pipeline
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/videoingest/backend/internal/app"
	"github.com/videoingest/backend/internal/config"
	"github.com/videoingest/backend/internal/logger"
	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	query := flag.String("q", "", "search query (required)")
	limit := flag.Int("limit", services.DefaultSearchLimit, "maximum number of search results")
	pick := flag.String("pick", "", "comma-separated 1-based result indices to ingest, default: all")
	flag.Parse()

	if strings.TrimSpace(*query) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}

	for _, warning := range cfg.Warnings() {
		logger.Logger.Warn(warning)
	}

	application, err := app.New(cfg, logger.Logger, func(status string) {
		fmt.Fprintln(os.Stderr, status)
	})
	if err != nil {
		logger.Logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// An interrupt stops the batch before the next stage starts
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, application, *query, *limit, *pick, os.Stdout)
	stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application.Close(closeCtx)
	cancel()

	logger.Sync()
	os.Exit(code)
}

// run executes one search-and-ingest invocation and returns the process exit code
func run(ctx context.Context, application *app.App, query string, limit int, pick string, out io.Writer) int {
	items, err := application.Search.Search(ctx, query, limit)
	if err != nil {
		fmt.Fprintf(out, "search failed: %v\n", err)
		return 1
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "no results")
		return 0
	}

	selected, err := selectItems(items, pick)
	if err != nil {
		fmt.Fprintf(out, "invalid -pick: %v\n", err)
		return 2
	}

	result := application.Pipeline.RunBatch(ctx, query, selected)
	printSummary(out, result)

	if result.Failed > 0 {
		return 1
	}
	return 0
}

// selectItems returns the items at the 1-based indices listed in pick, or all items when pick is empty
func selectItems(items []models.CatalogItem, pick string) ([]models.CatalogItem, error) {
	if strings.TrimSpace(pick) == "" {
		return items, nil
	}

	var selected []models.CatalogItem
	for _, part := range strings.Split(pick, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		index, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if index < 1 || index > len(items) {
			return nil, fmt.Errorf("index %d is out of range 1..%d", index, len(items))
		}
		selected = append(selected, items[index-1])
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no indices given")
	}
	return selected, nil
}

func printSummary(out io.Writer, result *models.BatchResult) {
	fmt.Fprintf(out, "run %s: %d succeeded, %d failed\n", result.RunID, result.Succeeded, result.Failed)
	for i, outcome := range result.Outcomes {
		if outcome.State == models.StateFailed {
			fmt.Fprintf(out, "%d. [failed at %s] %s (%s): %s\n", i+1, outcome.FailedStage, outcome.Title, outcome.ItemID, outcome.Error)
			continue
		}
		fmt.Fprintf(out, "%d. [ok] %s (%s) record %s\n", i+1, outcome.Title, outcome.ItemID, outcome.RecordID)
	}
}
