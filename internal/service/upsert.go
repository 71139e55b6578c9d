package service

import (
	"context"
	"fmt"
	"log/slog"

	"pricing_history/internal/domain"
	"pricing_history/internal/metrics"
)

// Upserter writes fetched items in bounded chunks, one transaction per chunk.
type Upserter struct {
	prices    PriceStore
	txManager TransactionManager
	batchSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewUpserter(
	prices PriceStore,
	txManager TransactionManager,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Upserter {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Upserter{
		prices:    prices,
		txManager: txManager,
		batchSize: batchSize,
		metrics:   m,
		logger:    logger.With("component", "upserter"),
	}
}

// Upsert returns the number of unique items committed. Chunks committed before
// a failing chunk stay committed.
func (u *Upserter) Upsert(ctx context.Context, snapshotID, currency string, items []domain.PricingItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	logger := u.logger.With("snapshot_id", snapshotID, "currency", currency)
	logger.Debug("upserting items", "count", len(items), "batch_size", u.batchSize)

	processed := 0
	for start := 0; start < len(items); start += u.batchSize {
		end := min(start+u.batchSize, len(items))
		chunk := items[start:end]

		unique, duplicates := Dedupe(chunk, currency)
		if duplicates > 0 {
			logger.Warn("removed duplicate items from batch",
				"chunk_size", len(chunk),
				"unique", len(unique),
			)
			u.metrics.DuplicatesDropped(currency, duplicates)
		}

		err := u.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return u.prices.UpsertBatch(txCtx, currency, unique)
		})
		if err != nil {
			return processed, fmt.Errorf("upsert items %d-%d: %w", start, end-1, err)
		}

		processed += len(unique)
		u.metrics.ItemsUpserted(currency, len(unique))
	}

	return processed, nil
}
