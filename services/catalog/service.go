package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/embedding"
	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/models"
)

// upsertBatchSize caps how many points one index write carries.
const upsertBatchSize = 100

// Service runs catalog ingestions.
type Service struct {
	embedder embedding.Embedder
	index    vectorindex.Index
	logger   *zap.Logger
}

// NewService creates an ingestion service.
func NewService(embedder embedding.Embedder, index vectorindex.Index, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, index: index, logger: logger}
}

// Report summarizes one ingestion run.
type Report struct {
	RunID    uuid.UUID
	Rows     int
	Skipped  int
	Upserted int
	Elapsed  time.Duration
}

// Run ingests the manifest's catalog: prepare the index, parse the CSV,
// embed documents in manifest sized batches, and upsert the points.
func (s *Service) Run(ctx context.Context, m Manifest) (Report, error) {
	report := Report{RunID: uuid.New()}
	start := time.Now()

	if err := s.index.Init(ctx); err != nil {
		return report, fmt.Errorf("prepare index: %w", err)
	}

	src, err := m.Open(ctx)
	if err != nil {
		return report, err
	}
	defer src.Close()

	products, docs, stats, err := parseCatalog(src, m)
	if err != nil {
		return report, err
	}
	report.Rows = stats.Rows
	report.Skipped = stats.Skipped

	s.logger.Info("catalog parsed",
		zap.String("run_id", report.RunID.String()),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
	)

	for lo := 0; lo < len(products); lo += m.BatchSize {
		hi := lo + m.BatchSize
		if hi > len(products) {
			hi = len(products)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, docs[lo:hi])
		if err != nil {
			return report, fmt.Errorf("embed batch at row %d: %w", lo, err)
		}

		for ulo := lo; ulo < hi; ulo += upsertBatchSize {
			uhi := ulo + upsertBatchSize
			if uhi > hi {
				uhi = hi
			}
			if err := s.index.Upsert(ctx, products[ulo:uhi], vectors[ulo-lo:uhi-lo]); err != nil {
				return report, fmt.Errorf("upsert batch at row %d: %w", ulo, err)
			}
			report.Upserted += uhi - ulo
		}

		s.logger.Info("batch ingested",
			zap.String("run_id", report.RunID.String()),
			zap.Int("upserted", report.Upserted),
			zap.Int("total", len(products)),
		)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// Preview parses the catalog without touching the embedder or the
// index, for dry runs.
func (s *Service) Preview(ctx context.Context, m Manifest) (Report, []models.Product, error) {
	report := Report{RunID: uuid.New()}
	start := time.Now()

	src, err := m.Open(ctx)
	if err != nil {
		return report, nil, err
	}
	defer src.Close()

	products, _, stats, err := parseCatalog(src, m)
	if err != nil {
		return report, nil, err
	}
	report.Rows = stats.Rows
	report.Skipped = stats.Skipped
	report.Elapsed = time.Since(start)
	return report, products, nil
}
