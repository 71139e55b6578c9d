package service

import "pricing_history/internal/domain"

// Dedupe drops items whose (meter, effective date, currency) key was already
// seen earlier in items. Order of the survivors is preserved.
func Dedupe(items []domain.PricingItem, currency string) ([]domain.PricingItem, int) {
	seen := make(map[domain.PriceKey]struct{}, len(items))
	unique := make([]domain.PricingItem, 0, len(items))

	for _, item := range items {
		key := item.Key(currency)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique, len(items) - len(unique)
}
