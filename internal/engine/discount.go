package engine

import (
	"strings"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// NoDiscount is the provider label when no discount applies.
const NoDiscount = "None"

// DiscountPrecedence is the fixed evaluation order for discount providers.
// Rules are mutually exclusive: the first matching provider wins and no
// stacking occurs.
var DiscountPrecedence = []models.DiscountProvider{
	models.ProviderWoolworths,
	models.ProviderColes,
	models.ProviderRACT,
}

// ListKey maps a provider to its community list name.
func ListKey(p models.DiscountProvider) string {
	return strings.ToLower(string(p))
}

// ResolveDiscount applies the first matching enabled provider's discount to a
// raw price in cents and returns the discounted price with the provider label.
// A station is eligible for a provider when it appears in the community list
// or in the user's additional codes for that provider. The subtraction is not
// floored at zero: a discount larger than the price yields a negative result.
func ResolveDiscount(
	code string,
	priceCents int64,
	discounts map[models.DiscountProvider]models.DiscountConfig,
	overlay *models.OverlaySnapshot,
) (int64, string) {
	for _, provider := range DiscountPrecedence {
		dc, ok := discounts[provider]
		if !ok || !dc.Enabled {
			continue
		}
		if !overlay.DiscountSet(ListKey(provider))[code] && !containsCode(dc.AdditionalStations, code) {
			continue
		}
		return priceCents - dc.AmountCents, string(provider)
	}
	return priceCents, NoDiscount
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
