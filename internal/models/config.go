package models

// DiscountProvider is a named loyalty/discount scheme. The label doubles as
// the value reported on derived views.
type DiscountProvider string

const (
	ProviderWoolworths DiscountProvider = "Woolworths"
	ProviderColes      DiscountProvider = "Coles"
	ProviderRACT       DiscountProvider = "RACT"
)

// Fuel types accepted by the upstream API.
var FuelTypes = []string{"U91", "E10", "P95", "P98", "DL", "PDL", "B20", "E85", "LPG"}

const (
	DefaultFuelType    = "U91"
	DefaultRangeKm     = 5.0
	DefaultDisplayZone = "Australia/Hobart"
	MaxFavourites      = 5
)

// DiscountConfig is the user's settings for one provider. A provider enabled
// without an amount behaves as a zero-cent (no-op) discount.
type DiscountConfig struct {
	Enabled            bool
	AmountCents        int64
	AdditionalStations []string
}

// UserConfig is the flat, validated configuration the engine consumes.
// Absent values carry the stated defaults; nothing here is an error state.
type UserConfig struct {
	FuelTypes           []string
	Discounts           map[DiscountProvider]DiscountConfig
	TyreInflationAdd    []string
	TyreInflationRemove []string
	FavouriteStations   []string
	HomeLocation        *Coordinates
	RangeKm             float64
	FastLocationPoll    bool
	DisplayTimezone     string
}

// Discount returns the provider's settings, zero-valued when unset.
func (c *UserConfig) Discount(p DiscountProvider) DiscountConfig {
	if c.Discounts == nil {
		return DiscountConfig{}
	}
	return c.Discounts[p]
}
