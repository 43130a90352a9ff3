package internal

import (
	"log"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// LoadUserConfig assembles the engine configuration from environment
// variables (typically via a .env file loaded at bootstrap). Absent or
// unparsable values get their documented defaults; configuration never fails.
func LoadUserConfig() models.UserConfig {
	cfg := models.UserConfig{
		FuelTypes:           parseFuelTypes(os.Getenv("FUEL_TYPES")),
		Discounts:           map[models.DiscountProvider]models.DiscountConfig{},
		TyreInflationAdd:    splitCodes(os.Getenv("TYRE_INFLATION_ADD")),
		TyreInflationRemove: splitCodes(os.Getenv("TYRE_INFLATION_REMOVE")),
		FavouriteStations:   ParseFavourites(os.Getenv("FAVOURITE_STATIONS")),
		RangeKm:             parseFloat(os.Getenv("RANGE_KM"), models.DefaultRangeKm),
		FastLocationPoll:    strings.EqualFold(os.Getenv("LOCATION_FAST_POLL"), "true"),
		DisplayTimezone:     os.Getenv("DISPLAY_TIMEZONE"),
	}

	for provider, prefix := range map[models.DiscountProvider]string{
		models.ProviderWoolworths: "WOOLWORTHS",
		models.ProviderColes:      "COLES",
		models.ProviderRACT:       "RACT",
	} {
		amount, ok := os.LookupEnv(prefix + "_DISCOUNT")
		if !ok {
			continue
		}
		cfg.Discounts[provider] = models.DiscountConfig{
			Enabled:            true,
			AmountCents:        parseCents(amount),
			AdditionalStations: splitCodes(os.Getenv(prefix + "_STATIONS")),
		}
	}

	latStr, lonStr := os.Getenv("HOME_LATITUDE"), os.Getenv("HOME_LONGITUDE")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			cfg.HomeLocation = &models.Coordinates{Latitude: lat, Longitude: lon}
		} else {
			log.Printf("ignoring unparsable home location %q,%q", latStr, lonStr)
		}
	}

	return cfg
}

// ParseFavourites parses the comma-separated favourite station list:
// whitespace trimmed, non-numeric entries dropped, duplicates removed, capped
// at the favourite limit.
func ParseFavourites(raw string) []string {
	seen := make(map[string]bool)
	var favourites []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code == "" || !allDigits(code) || seen[code] {
			continue
		}
		seen[code] = true
		favourites = append(favourites, code)
		if len(favourites) == models.MaxFavourites {
			break
		}
	}
	return favourites
}

func parseFuelTypes(raw string) []string {
	known := make(map[string]bool, len(models.FuelTypes))
	for _, ft := range models.FuelTypes {
		known[ft] = true
	}

	var fuelTypes []string
	for _, part := range strings.Split(raw, ",") {
		ft := strings.ToUpper(strings.TrimSpace(part))
		if ft == "" {
			continue
		}
		if !known[ft] {
			log.Printf("ignoring unknown fuel type %q", ft)
			continue
		}
		fuelTypes = append(fuelTypes, ft)
	}
	if len(fuelTypes) == 0 {
		fuelTypes = []string{models.DefaultFuelType}
	}
	return fuelTypes
}

func splitCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func parseCents(raw string) int64 {
	cents, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Printf("unparsable discount amount %q, treating as 0", raw)
		return 0
	}
	return cents
}

func parseFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
