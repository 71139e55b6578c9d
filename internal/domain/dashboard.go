package domain

import "time"

// Summary is the dashboard headline.
type Summary struct {
	TotalMeters         int64      `json:"totalMeters" db:"total_meters"`
	TotalServices       int64      `json:"totalServices" db:"total_services"`
	TotalRegions        int64      `json:"totalRegions" db:"total_regions"`
	TotalCurrencies     int64      `json:"totalCurrencies" db:"total_currencies"`
	LastUpdate          *time.Time `json:"lastUpdate" db:"last_update"`
	TotalSnapshots      int64      `json:"totalSnapshots" db:"total_snapshots"`
	SuccessfulSnapshots int64      `json:"successfulSnapshots" db:"successful_snapshots"`
	LastSnapshotDate    *time.Time `json:"lastSnapshotDate" db:"last_snapshot_date"`
}

type ServiceStat struct {
	Name       string  `json:"name" db:"service_name"`
	MeterCount int64   `json:"meterCount" db:"meter_count"`
	AvgPrice   float64 `json:"avgPrice" db:"avg_price"`
	MinPrice   float64 `json:"minPrice" db:"min_price"`
	MaxPrice   float64 `json:"maxPrice" db:"max_price"`
}

type RegionStat struct {
	Region     string  `json:"region" db:"arm_region_name"`
	MeterCount int64   `json:"meterCount" db:"meter_count"`
	AvgPrice   float64 `json:"avgPrice" db:"avg_price"`
}

type PricePoint struct {
	Date        time.Time `json:"date" db:"effective_start_date"`
	Price       float64   `json:"price" db:"retail_price"`
	ProductName *string   `json:"productName" db:"product_name"`
}

type RunSummary struct {
	SnapshotID      string     `json:"snapshotId" db:"snapshot_id"`
	Currency        string     `json:"currency" db:"currency_code"`
	StartedUTC      time.Time  `json:"startedUtc" db:"started_utc"`
	FinishedUTC     *time.Time `json:"finishedUtc" db:"finished_utc"`
	Status          RunStatus  `json:"status" db:"status"`
	ItemCount       *int64     `json:"itemCount" db:"item_count"`
	DurationSeconds *float64   `json:"durationSeconds" db:"duration_seconds"`
	ItemsPerSecond  float64    `json:"itemsPerSecond" db:"items_per_second"`
}

type SearchResult struct {
	MeterID       string    `json:"meterId" db:"meter_id"`
	ProductName   *string   `json:"productName" db:"product_name"`
	SkuName       *string   `json:"skuName" db:"sku_name"`
	ServiceName   *string   `json:"serviceName" db:"service_name"`
	MeterName     *string   `json:"meterName" db:"meter_name"`
	Region        *string   `json:"region" db:"arm_region_name"`
	Price         float64   `json:"price" db:"retail_price"`
	Unit          *string   `json:"unit" db:"unit_of_measure"`
	EffectiveDate time.Time `json:"effectiveDate" db:"effective_start_date"`
}

// SkuFamilyStat is one (category, sku family) aggregate row.
type SkuFamilyStat struct {
	Category   string  `json:"-" db:"category"`
	Name       string  `json:"name" db:"sku_family"`
	MeterCount int64   `json:"meterCount" db:"meter_count"`
	AvgPrice   float64 `json:"avgPrice" db:"avg_price"`
	MinPrice   float64 `json:"minPrice" db:"min_price"`
	MaxPrice   float64 `json:"maxPrice" db:"max_price"`
}

// Category groups sku families under one service family.
type Category struct {
	Name        string          `json:"name"`
	SkuFamilies []SkuFamilyStat `json:"skuFamilies"`
	TotalMeters int64           `json:"totalMeters"`
	AvgPrice    float64         `json:"avgPrice"`
}

type SkuMeter struct {
	MeterID     string  `json:"meterId" db:"meter_id"`
	MeterName   *string `json:"meterName" db:"meter_name"`
	ProductName *string `json:"productName" db:"product_name"`
	ServiceName *string `json:"serviceName" db:"service_name"`
	Region      *string `json:"region" db:"arm_region_name"`
	Price       float64 `json:"price" db:"retail_price"`
	Unit        *string `json:"unit" db:"unit_of_measure"`
}

type MeterPricePoint struct {
	Date   time.Time `json:"date" db:"effective_start_date"`
	Price  float64   `json:"price" db:"retail_price"`
	Region *string   `json:"region" db:"arm_region_name"`
	Unit   *string   `json:"unit" db:"unit_of_measure"`
}

type CheapestRegion struct {
	Region     string  `json:"region" db:"arm_region_name"`
	AvgPrice   float64 `json:"avgPrice" db:"avg_price"`
	MeterCount int64   `json:"meterCount" db:"meter_count"`
}
