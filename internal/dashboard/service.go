package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"pricing_history/internal/cache"
	"pricing_history/internal/domain"
)

const (
	DefaultCurrency      = "USD"
	DefaultServiceLimit  = 15
	DefaultSearchLimit   = 50
	DefaultSnapshotLimit = 20
	// DefaultTrendService is charted when neither a meter nor a service is requested.
	DefaultTrendService = "Virtual Machines"
)

// Service serves the dashboard projections, optionally through a cache.
type Service struct {
	store  Store
	cache  Cache
	logger *slog.Logger
}

// NewService wires the read side. A nil cache queries the store every time.
func NewService(store Store, c Cache, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  c,
		logger: logger.With("component", "dashboard"),
	}
}

// cached returns the cached value for key parts or loads and stores it.
// Cache failures fall back to load.
func cached[T any](ctx context.Context, s *Service, parts []string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	key := s.cache.Key(parts...)

	var value T
	err := s.cache.Get(ctx, key, &value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate drops cached projections after new data lands.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}

func (s *Service) Summary(ctx context.Context) (*domain.Summary, error) {
	return cached(ctx, s, []string{"summary"}, s.store.Summary)
}

func (s *Service) TopServices(ctx context.Context, currency string, limit int) ([]domain.ServiceStat, error) {
	return cached(ctx, s, []string{"services", currency, strconv.Itoa(limit)},
		func(ctx context.Context) ([]domain.ServiceStat, error) {
			return s.store.TopServices(ctx, currency, limit)
		})
}

func (s *Service) RegionPricing(ctx context.Context, currency, service string) ([]domain.RegionStat, error) {
	return cached(ctx, s, []string{"regions", currency, service},
		func(ctx context.Context) ([]domain.RegionStat, error) {
			return s.store.RegionPricing(ctx, currency, service)
		})
}

// PriceTrends charts one meter when meterID is set, otherwise the daily
// average of a service.
func (s *Service) PriceTrends(ctx context.Context, currency, meterID, service string) ([]domain.PricePoint, error) {
	if meterID != "" {
		return cached(ctx, s, []string{"trends", currency, "meter", meterID},
			func(ctx context.Context) ([]domain.PricePoint, error) {
				return s.store.MeterTrend(ctx, currency, meterID)
			})
	}

	if service == "" {
		service = DefaultTrendService
	}
	return cached(ctx, s, []string{"trends", currency, "service", service},
		func(ctx context.Context) ([]domain.PricePoint, error) {
			return s.store.ServiceTrend(ctx, currency, service)
		})
}

// SnapshotHistory is never cached; runs change while an invocation is in flight.
func (s *Service) SnapshotHistory(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return s.store.SnapshotHistory(ctx, limit)
}

func (s *Service) Search(ctx context.Context, term, currency string, limit int) ([]domain.SearchResult, error) {
	if term == "" {
		return []domain.SearchResult{}, nil
	}
	return s.store.Search(ctx, term, currency, limit)
}

// Hierarchy groups sku families under their service family. A category's
// average is the mean of its sku family averages.
func (s *Service) Hierarchy(ctx context.Context, currency string) ([]domain.Category, error) {
	return cached(ctx, s, []string{"hierarchy", currency},
		func(ctx context.Context) ([]domain.Category, error) {
			stats, err := s.store.SkuFamilies(ctx, currency)
			if err != nil {
				return nil, err
			}
			return groupCategories(stats), nil
		})
}

func groupCategories(stats []domain.SkuFamilyStat) []domain.Category {
	categories := []domain.Category{}
	index := make(map[string]int)

	for _, stat := range stats {
		i, ok := index[stat.Category]
		if !ok {
			i = len(categories)
			index[stat.Category] = i
			categories = append(categories, domain.Category{Name: stat.Category})
		}
		categories[i].SkuFamilies = append(categories[i].SkuFamilies, stat)
		categories[i].TotalMeters += stat.MeterCount
	}

	for i := range categories {
		var sum float64
		for _, sku := range categories[i].SkuFamilies {
			sum += sku.AvgPrice
		}
		categories[i].AvgPrice = sum / float64(len(categories[i].SkuFamilies))
	}

	return categories
}

func (s *Service) SkuMeters(ctx context.Context, currency, sku string) ([]domain.SkuMeter, error) {
	return cached(ctx, s, []string{"sku-meters", currency, sku},
		func(ctx context.Context) ([]domain.SkuMeter, error) {
			return s.store.SkuMeters(ctx, currency, sku)
		})
}

func (s *Service) MeterHistory(ctx context.Context, meterID, currency string) ([]domain.MeterPricePoint, error) {
	return cached(ctx, s, []string{"meter-history", currency, meterID},
		func(ctx context.Context) ([]domain.MeterPricePoint, error) {
			return s.store.MeterHistory(ctx, meterID, currency)
		})
}

// CheapestRegion returns nil when the sku has no priced region.
func (s *Service) CheapestRegion(ctx context.Context, sku, currency string) (*domain.CheapestRegion, error) {
	return cached(ctx, s, []string{"cheapest-region", currency, sku},
		func(ctx context.Context) (*domain.CheapestRegion, error) {
			return s.store.CheapestRegion(ctx, sku, currency)
		})
}
