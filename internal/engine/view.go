package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// Timestamp format used by the pricing API (assumed UTC).
const sourceTimeLayout = "02/01/2006 15:04:05"

// Format used for converted display timestamps.
const displayTimeLayout = "2006-01-02 15:04:05"

const (
	labelNoData      = "No data found"
	timestampUnknown = "Unknown"
	timestampInvalid = "Invalid Date Format"
	reasonNoPrice    = "Price not available for this station and fuel type"
	reasonNoStation  = "Station not present in the current snapshot"
)

// DisplayPrice converts integer cents to the displayed currency value:
// cents/100 rounded to 3 decimal places.
func DisplayPrice(cents int64) float64 {
	v, _ := decimal.NewFromInt(cents).
		Div(decimal.NewFromInt(100)).
		Round(3).
		Float64()
	return v
}

// formatLocalTimestamp parses a source timestamp as UTC and renders it in the
// display zone. An empty input yields "Unknown"; a malformed one yields
// "Invalid Date Format" rather than aborting the view computation.
func formatLocalTimestamp(raw string, zone *time.Location) string {
	t, sentinel := parseSourceTimestamp(raw)
	if sentinel != "" {
		return sentinel
	}
	return t.In(zone).Format(displayTimeLayout)
}

func parseSourceTimestamp(raw string) (time.Time, string) {
	if raw == "" {
		return time.Time{}, timestampUnknown
	}
	t, err := time.ParseInLocation(sourceTimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, timestampInvalid
	}
	return t, ""
}

// unavailableView is the "no data" marker for a (station, fuel type) pair.
func unavailableView(code, fuelType, reason string) models.StationPriceView {
	return models.StationPriceView{
		StationCode:      code,
		FuelType:         fuelType,
		Available:        false,
		Reason:           reason,
		DiscountProvider: NoDiscount,
		InRange:          true,
		Distributor:      labelNoData,
		Operator:         labelNoData,
		LastUpdated:      timestampUnknown,
	}
}

// buildView joins one station, its matching price record and the overlay data
// into a fully-derived view. rec may be nil (no price for the pair).
func (e *Engine) buildView(
	station *models.Station,
	fuelType string,
	rec *models.PriceRecord,
	overlay *models.OverlaySnapshot,
) models.StationPriceView {
	code := string(station.Code)

	if rec == nil || rec.Price == nil {
		v := unavailableView(code, fuelType, reasonNoPrice)
		v.StationName = station.Name
		v.Brand = station.Brand
		v.Address = station.Address
		v.IsFavourite = e.favourites[code]
		return v
	}

	raw := *rec.Price
	discounted, provider := ResolveDiscount(code, raw, e.cfg.Discounts, overlay)
	prox := EvaluateProximity(station.Location, e.location, e.cfg.RangeKm)

	return models.StationPriceView{
		StationCode:          code,
		StationName:          station.Name,
		Brand:                station.Brand,
		Address:              station.Address,
		FuelType:             fuelType,
		Available:            true,
		RawPriceCents:        raw,
		DiscountedPriceCents: discounted,
		DisplayPrice:         DisplayPrice(discounted),
		DiscountProvider:     provider,
		TyreInflation: ResolveAmenity(
			code, e.cfg.TyreInflationAdd, e.cfg.TyreInflationRemove, overlayTyreSet(overlay)),
		DistanceKm:  prox.DistanceKm,
		InRange:     prox.InRange,
		Distributor: overlayLabel(overlay.Distributors, code),
		Operator:    overlayLabel(overlay.Operators, code),
		IsFavourite: e.favourites[code],
		LastUpdated: formatLocalTimestamp(rec.LastUpdated, e.zone),
	}
}

func overlayTyreSet(overlay *models.OverlaySnapshot) map[string]bool {
	if overlay == nil {
		return nil
	}
	return overlay.TyreInflation
}

func overlayLabel(m map[string]string, code string) string {
	if label, ok := m[code]; ok {
		return label
	}
	return labelNoData
}
