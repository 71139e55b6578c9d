package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"pricing_history/internal/domain"
)

// priceColumns lists the bound columns in parameter order.
var priceColumns = []string{
	"meter_id", "effective_start_date", "currency_code", "retail_price", "unit_price",
	"unit_of_measure", "arm_region_name", "location", "product_id", "product_name",
	"sku_id", "sku_name", "service_id", "service_name", "service_family", "meter_name",
	"arm_sku_name", "reservation_term", "type", "is_primary_meter_region",
	"tier_minimum_units", "availability_id",
}

type PriceStore struct {
	db *sqlx.DB
}

func NewPriceStore(db *sqlx.DB) *PriceStore {
	return &PriceStore{db: db}
}

// UpsertBatch writes items in a single statement keyed on
// (meter_id, effective_start_date, currency_code). Matched rows get every
// non-key column overwritten and last_seen_utc refreshed. Items must already
// be unique by key; Postgres rejects a statement that touches a row twice.
func (s *PriceStore) UpsertBatch(ctx context.Context, currency string, items []domain.PricingItem) error {
	if len(items) == 0 {
		return nil
	}

	query, args, err := BuildUpsertQuery(currency, items)
	if err != nil {
		return err
	}

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d prices: %w", len(items), err)
	}
	return nil
}

// BuildUpsertQuery renders the bulk upsert statement and its arguments.
func BuildUpsertQuery(currency string, items []domain.PricingItem) (string, []any, error) {
	if params := len(items) * domain.ParamsPerItem; params >= domain.MaxBindParams {
		return "", nil, fmt.Errorf("batch of %d items needs %d parameters, limit is %d",
			len(items), params, domain.MaxBindParams)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO retail_prices (")
	sb.WriteString(strings.Join(priceColumns, ", "))
	sb.WriteString(", last_seen_utc) VALUES ")

	args := make([]any, 0, len(items)*domain.ParamsPerItem)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < domain.ParamsPerItem; j++ {
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*domain.ParamsPerItem + j + 1))
			sb.WriteString(", ")
		}
		sb.WriteString("now())")
		args = append(args, itemArgs(currency, item)...)
	}

	sb.WriteString(" ON CONFLICT (meter_id, effective_start_date, currency_code) DO UPDATE SET ")
	for _, col := range priceColumns[3:] {
		sb.WriteString(col)
		sb.WriteString(" = EXCLUDED.")
		sb.WriteString(col)
		sb.WriteString(", ")
	}
	sb.WriteString("last_seen_utc = EXCLUDED.last_seen_utc")

	return sb.String(), args, nil
}

func itemArgs(currency string, item domain.PricingItem) []any {
	return []any{
		item.MeterID,
		item.EffectiveStartDate,
		currency,
		item.RetailPrice,
		item.UnitPrice,
		item.UnitOfMeasure,
		item.ArmRegionName,
		item.Location,
		item.ProductID,
		item.ProductName,
		item.SkuID,
		item.SkuName,
		item.ServiceID,
		item.ServiceName,
		item.ServiceFamily,
		item.MeterName,
		item.ArmSkuName,
		item.ReservationTerm,
		item.Type,
		item.IsPrimaryMeterRegion,
		item.TierMinimumUnits,
		item.AvailabilityID,
	}
}
