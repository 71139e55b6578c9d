package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"pricing_history/internal/domain"
)

type Source interface {
	ID() string
	FirstPageURL(currency string) string
	FetchPage(ctx context.Context, url string) (*domain.Page, error)
}

type PriceStore interface {
	UpsertBatch(ctx context.Context, currency string, items []domain.PricingItem) error
}

type RunStore interface {
	Start(ctx context.Context, snapshotID, currency string, startedAt time.Time) error
	Finish(ctx context.Context, snapshotID, currency string, status domain.RunStatus, itemCount int) error
	MarkFailed(ctx context.Context, snapshotID, currency string) (int64, error)
	ReapHung(ctx context.Context, maxAge time.Duration) (int64, error)
}

type DiagnosticsStore interface {
	Record(ctx context.Context, functionName, message string) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishRun(ctx context.Context, event *domain.RunEvent) error
	Close() error
}
