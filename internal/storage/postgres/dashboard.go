package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"pricing_history/internal/domain"
)

// currentPrices keeps the latest effective price per meter for the currency bound to $1.
const currentPrices = `
	WITH current_prices AS (
		SELECT DISTINCT ON (meter_id) *
		FROM retail_prices
		WHERE currency_code = $1
		ORDER BY meter_id, effective_start_date DESC
	)`

// DashboardStore serves the read-only projections behind the dashboard.
type DashboardStore struct {
	db *sqlx.DB
}

func NewDashboardStore(db *sqlx.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

func (s *DashboardStore) Summary(ctx context.Context) (*domain.Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT meter_id) FROM retail_prices) AS total_meters,
			(SELECT COUNT(DISTINCT service_name) FROM retail_prices) AS total_services,
			(SELECT COUNT(DISTINCT arm_region_name) FROM retail_prices) AS total_regions,
			(SELECT COUNT(DISTINCT currency_code) FROM retail_prices) AS total_currencies,
			(SELECT MAX(last_seen_utc) FROM retail_prices) AS last_update,
			(SELECT COUNT(*) FROM snapshot_runs) AS total_snapshots,
			(SELECT COUNT(*) FROM snapshot_runs WHERE status = 'SUCCEEDED') AS successful_snapshots,
			(SELECT MAX(started_utc) FROM snapshot_runs) AS last_snapshot_date`

	var summary domain.Summary
	if err := s.db.GetContext(ctx, &summary, query); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *DashboardStore) TopServices(ctx context.Context, currency string, limit int) ([]domain.ServiceStat, error) {
	query := currentPrices + `
		SELECT
			service_name,
			COUNT(DISTINCT meter_id) AS meter_count,
			COALESCE(AVG(retail_price), 0) AS avg_price,
			COALESCE(MIN(retail_price), 0) AS min_price,
			COALESCE(MAX(retail_price), 0) AS max_price
		FROM current_prices
		WHERE retail_price > 0 AND service_name IS NOT NULL
		GROUP BY service_name
		ORDER BY meter_count DESC
		LIMIT $2`

	stats := []domain.ServiceStat{}
	err := s.db.SelectContext(ctx, &stats, query, currency, limit)
	return stats, err
}

// RegionPricing aggregates by region, optionally restricted to one service.
func (s *DashboardStore) RegionPricing(ctx context.Context, currency, service string) ([]domain.RegionStat, error) {
	query := currentPrices + `
		SELECT
			arm_region_name,
			COUNT(DISTINCT meter_id) AS meter_count,
			COALESCE(AVG(retail_price), 0) AS avg_price
		FROM current_prices
		WHERE retail_price > 0
			AND arm_region_name IS NOT NULL
			AND ($2::text = '' OR service_name = $2::text)
		GROUP BY arm_region_name
		ORDER BY meter_count DESC`

	stats := []domain.RegionStat{}
	err := s.db.SelectContext(ctx, &stats, query, currency, service)
	return stats, err
}

func (s *DashboardStore) MeterTrend(ctx context.Context, currency, meterID string) ([]domain.PricePoint, error) {
	query := `
		SELECT effective_start_date, COALESCE(retail_price, 0) AS retail_price, product_name
		FROM retail_prices
		WHERE meter_id = $1 AND currency_code = $2
		ORDER BY effective_start_date DESC`

	points := []domain.PricePoint{}
	err := s.db.SelectContext(ctx, &points, query, meterID, currency)
	return points, err
}

func (s *DashboardStore) ServiceTrend(ctx context.Context, currency, service string) ([]domain.PricePoint, error) {
	query := `
		SELECT
			effective_start_date,
			COALESCE(AVG(retail_price), 0) AS retail_price,
			service_name AS product_name
		FROM retail_prices
		WHERE service_name = $1 AND currency_code = $2 AND retail_price > 0
		GROUP BY effective_start_date, service_name
		ORDER BY effective_start_date DESC`

	points := []domain.PricePoint{}
	err := s.db.SelectContext(ctx, &points, query, service, currency)
	return points, err
}

func (s *DashboardStore) SnapshotHistory(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT
			snapshot_id,
			currency_code,
			started_utc,
			finished_utc,
			status,
			item_count,
			EXTRACT(EPOCH FROM (finished_utc - started_utc))::float8 AS duration_seconds,
			CASE
				WHEN finished_utc > started_utc AND item_count IS NOT NULL
				THEN item_count / EXTRACT(EPOCH FROM (finished_utc - started_utc))::float8
				ELSE 0
			END AS items_per_second
		FROM snapshot_runs
		ORDER BY started_utc DESC
		LIMIT $1`

	runs := []domain.RunSummary{}
	err := s.db.SelectContext(ctx, &runs, query, limit)
	return runs, err
}

func (s *DashboardStore) Search(ctx context.Context, term, currency string, limit int) ([]domain.SearchResult, error) {
	query := currentPrices + `
		SELECT
			meter_id, product_name, sku_name, service_name, meter_name,
			arm_region_name, COALESCE(retail_price, 0) AS retail_price,
			unit_of_measure, effective_start_date
		FROM current_prices
		WHERE product_name ILIKE $2
			OR sku_name ILIKE $2
			OR service_name ILIKE $2
			OR meter_name ILIKE $2
		ORDER BY retail_price DESC NULLS LAST
		LIMIT $3`

	results := []domain.SearchResult{}
	err := s.db.SelectContext(ctx, &results, query, currency, "%"+term+"%", limit)
	return results, err
}

// SkuFamilies returns flat (service family, sku) aggregates ordered by both.
func (s *DashboardStore) SkuFamilies(ctx context.Context, currency string) ([]domain.SkuFamilyStat, error) {
	query := currentPrices + `
		SELECT
			COALESCE(service_family, 'Other') AS category,
			COALESCE(sku_name, 'Unknown') AS sku_family,
			COUNT(DISTINCT meter_id) AS meter_count,
			COALESCE(AVG(retail_price), 0) AS avg_price,
			COALESCE(MIN(retail_price), 0) AS min_price,
			COALESCE(MAX(retail_price), 0) AS max_price
		FROM current_prices
		WHERE retail_price > 0
		GROUP BY 1, 2
		ORDER BY 1, 2`

	stats := []domain.SkuFamilyStat{}
	err := s.db.SelectContext(ctx, &stats, query, currency)
	return stats, err
}

func (s *DashboardStore) SkuMeters(ctx context.Context, currency, sku string) ([]domain.SkuMeter, error) {
	query := currentPrices + `
		SELECT
			meter_id, meter_name, product_name, service_name, arm_region_name,
			retail_price, unit_of_measure
		FROM current_prices
		WHERE sku_name = $2 AND retail_price > 0
		ORDER BY retail_price DESC`

	meters := []domain.SkuMeter{}
	err := s.db.SelectContext(ctx, &meters, query, currency, sku)
	return meters, err
}

func (s *DashboardStore) MeterHistory(ctx context.Context, meterID, currency string) ([]domain.MeterPricePoint, error) {
	query := `
		SELECT effective_start_date, retail_price, arm_region_name, unit_of_measure
		FROM retail_prices
		WHERE meter_id = $1 AND currency_code = $2 AND retail_price > 0
		ORDER BY effective_start_date ASC`

	points := []domain.MeterPricePoint{}
	err := s.db.SelectContext(ctx, &points, query, meterID, currency)
	return points, err
}

// CheapestRegion returns nil when no region prices the sku.
func (s *DashboardStore) CheapestRegion(ctx context.Context, sku, currency string) (*domain.CheapestRegion, error) {
	query := currentPrices + `
		SELECT
			arm_region_name,
			AVG(retail_price) AS avg_price,
			COUNT(DISTINCT meter_id) AS meter_count
		FROM current_prices
		WHERE sku_name = $2 AND retail_price > 0 AND arm_region_name IS NOT NULL
		GROUP BY arm_region_name
		ORDER BY avg_price ASC
		LIMIT 1`

	var region domain.CheapestRegion
	err := s.db.GetContext(ctx, &region, query, currency, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}
