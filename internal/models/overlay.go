package models

import "time"

// OverlaySnapshot holds the community-maintained supplementary data: discount
// eligibility lists, tyre inflation amenity list, and distributor/operator
// directories. Like PriceSnapshot it is immutable and replaced wholesale on
// each refresh. A provider whose fetch failed contributes an empty set rather
// than failing the snapshot.
type OverlaySnapshot struct {
	DiscountStations map[string]map[string]bool `json:"discount_stations"`
	TyreInflation    map[string]bool            `json:"tyre_inflation"`
	Distributors     map[string]string          `json:"distributors"`
	Operators        map[string]string          `json:"operators"`
	FetchedAt        time.Time                  `json:"fetched_at"`
}

// DiscountSet returns the station set for a provider list key, never nil.
func (o *OverlaySnapshot) DiscountSet(key string) map[string]bool {
	if o == nil || o.DiscountStations == nil {
		return nil
	}
	return o.DiscountStations[key]
}
