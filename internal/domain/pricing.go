package domain

import "time"

const (
	// ParamsPerItem is the number of bound parameters one item contributes to a bulk upsert.
	ParamsPerItem = 22
	// MaxBindParams is the store's ceiling on bound parameters per statement.
	MaxBindParams = 2100
)

// PricingItem is one retail price row as returned by the pricing API.
// The natural key is (MeterID, EffectiveStartDate, CurrencyCode).
type PricingItem struct {
	MeterID              string
	EffectiveStartDate   time.Time
	CurrencyCode         string
	RetailPrice          *float64
	UnitPrice            *float64
	UnitOfMeasure        *string
	ArmRegionName        *string
	Location             *string
	ProductID            *string
	ProductName          *string
	SkuID                *string
	SkuName              *string
	ServiceID            *string
	ServiceName          *string
	ServiceFamily        *string
	MeterName            *string
	ArmSkuName           *string
	ReservationTerm      *string
	Type                 *string
	IsPrimaryMeterRegion bool
	TierMinimumUnits     *float64
	AvailabilityID       *string
}

// PriceKey identifies a stored price record.
type PriceKey struct {
	MeterID            string
	EffectiveStartDate time.Time
	CurrencyCode       string
}

// Key returns the item's natural key under the given currency.
func (p PricingItem) Key(currency string) PriceKey {
	return PriceKey{
		MeterID:            p.MeterID,
		EffectiveStartDate: p.EffectiveStartDate.UTC(),
		CurrencyCode:       currency,
	}
}

// Page is one page of the pricing API.
type Page struct {
	Items        []PricingItem
	NextPageLink string
}

// HasNext reports whether another page follows.
func (p *Page) HasNext() bool {
	return p.NextPageLink != ""
}
