package engine

import (
	"sort"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// Cheapest ranks the in-range, priced stations for one fuel type by
// discounted price and summarises the winner(s). The sort is stable: equally
// priced stations keep their snapshot order (ties are not re-sorted). The
// summary lists the cheapest station overall plus, only when it is a
// different station, the cheapest station offering tyre inflation. An empty
// qualifying set produces a summary with no value, not an error.
func (e *Engine) Cheapest(fuelType string) models.CheapestSummary {
	summary := models.CheapestSummary{
		FuelType: fuelType,
		Stations: []models.StationPriceView{},
	}

	var candidates []models.StationPriceView
	for _, v := range e.Views(fuelType) {
		if v.Available && v.InRange {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return summary
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DiscountedPriceCents < candidates[j].DiscountedPriceCents
	})

	cheapest := candidates[0]
	price := cheapest.DisplayPrice
	summary.DisplayPrice = &price
	summary.Stations = append(summary.Stations, cheapest)

	for _, v := range candidates {
		if v.TyreInflation {
			if v.StationCode != cheapest.StationCode {
				summary.Stations = append(summary.Stations, v)
			}
			break
		}
	}

	return summary
}

// Top returns the n cheapest in-range priced views for a fuel type, ranked by
// discounted price with the same stable tie handling as Cheapest.
func (e *Engine) Top(fuelType string, n int) []models.StationPriceView {
	var candidates []models.StationPriceView
	for _, v := range e.Views(fuelType) {
		if v.Available && v.InRange {
			candidates = append(candidates, v)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DiscountedPriceCents < candidates[j].DiscountedPriceCents
	})
	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
