package dashboard

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"pricing_history/internal/domain"
)

type Store interface {
	Summary(ctx context.Context) (*domain.Summary, error)
	TopServices(ctx context.Context, currency string, limit int) ([]domain.ServiceStat, error)
	RegionPricing(ctx context.Context, currency, service string) ([]domain.RegionStat, error)
	MeterTrend(ctx context.Context, currency, meterID string) ([]domain.PricePoint, error)
	ServiceTrend(ctx context.Context, currency, service string) ([]domain.PricePoint, error)
	SnapshotHistory(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Search(ctx context.Context, term, currency string, limit int) ([]domain.SearchResult, error)
	SkuFamilies(ctx context.Context, currency string) ([]domain.SkuFamilyStat, error)
	SkuMeters(ctx context.Context, currency, sku string) ([]domain.SkuMeter, error)
	MeterHistory(ctx context.Context, meterID, currency string) ([]domain.MeterPricePoint, error)
	CheapestRegion(ctx context.Context, sku, currency string) (*domain.CheapestRegion, error)
}

type Cache interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}
