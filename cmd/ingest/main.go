package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bc144/sf-agent/app"
	"github.com/bc144/sf-agent/config"
	"github.com/bc144/sf-agent/internal/observability"
	"github.com/bc144/sf-agent/services/catalog"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the ingestion manifest (YAML)")
	dryRun := flag.Bool("dry-run", false, "parse and report without embedding or writing to the index")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -manifest <path> [-dry-run]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment, cfg.Observability.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *manifestPath, *dryRun); err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, manifestPath string, dryRun bool) error {
	m, err := catalog.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	if dryRun {
		// Dry runs only parse; the embedder and index are never reached.
		svc := catalog.NewService(nil, nil, logger)
		report, products, err := svc.Preview(ctx, m)
		if err != nil {
			return err
		}
		logger.Info("dry run complete",
			zap.String("run_id", report.RunID.String()),
			zap.Int("rows", report.Rows),
			zap.Int("skipped", report.Skipped),
			zap.Int("products", len(products)),
			zap.Duration("elapsed", report.Elapsed))
		return nil
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	report, err := deps.Catalog.Run(ctx, m)
	if err != nil {
		return err
	}

	logger.Info("ingestion complete",
		zap.String("run_id", report.RunID.String()),
		zap.String("backend", cfg.Vector.Backend),
		zap.Int("rows", report.Rows),
		zap.Int("skipped", report.Skipped),
		zap.Int("upserted", report.Upserted),
		zap.Duration("elapsed", report.Elapsed))
	return nil
}
