package models

// StationPriceView is the fully-derived, read-only projection for one
// (station, fuel type) pair. It is recomputed from the current snapshots on
// every read and never independently mutated.
//
// When no price record matches the pair (or its price is absent) the view is
// a "no data" marker: Available is false, Reason explains why, and the numeric
// fields are meaningless.
type StationPriceView struct {
	StationCode string `json:"station_code"`
	StationName string `json:"station_name,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Address     string `json:"address,omitempty"`
	FuelType    string `json:"fuel_type"`

	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	RawPriceCents        int64   `json:"raw_price_cents"`
	DiscountedPriceCents int64   `json:"discounted_price_cents"`
	DisplayPrice         float64 `json:"display_price"`
	DiscountProvider     string  `json:"discount_provider"`

	TyreInflation bool     `json:"tyre_inflation"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	InRange       bool     `json:"in_range"`

	Distributor string `json:"distributor"`
	Operator    string `json:"operator"`

	IsFavourite bool   `json:"is_favourite"`
	LastUpdated string `json:"last_updated"`
}

// CheapestSummary ranks the in-range, priced stations for one fuel type.
// Stations holds the cheapest overall view, plus the cheapest view with the
// tyre inflation amenity when that is a different station. DisplayPrice is
// the cheapest overall price; nil when no station qualified.
type CheapestSummary struct {
	FuelType     string             `json:"fuel_type"`
	DisplayPrice *float64           `json:"display_price,omitempty"`
	Stations     []StationPriceView `json:"stations"`
}

// StationDetail is the full-detail (favourite) projection of one station:
// every price on offer, with the most recent update across all fuel types.
type StationDetail struct {
	Station     Station            `json:"station"`
	Prices      []StationPriceView `json:"prices"`
	LastUpdated string             `json:"last_updated"`
}
