package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

func TestParseFavourites(t *testing.T) {
	t.Run("Trims, dedupes and drops non-numeric entries", func(t *testing.T) {
		favs := ParseFavourites(" 123 ,456,abc,123, 789 ")
		assert.Equal(t, []string{"123", "456", "789"}, favs)
	})

	t.Run("Capped at five", func(t *testing.T) {
		favs := ParseFavourites("1,2,3,4,5,6,7")
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, favs)
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Empty(t, ParseFavourites(""))
	})
}

func TestLoadUserConfig(t *testing.T) {
	t.Run("Defaults when nothing is set", func(t *testing.T) {
		cfg := LoadUserConfig()
		assert.Equal(t, []string{"U91"}, cfg.FuelTypes)
		assert.Equal(t, 5.0, cfg.RangeKm)
		assert.Empty(t, cfg.Discounts)
		assert.Nil(t, cfg.HomeLocation)
		assert.False(t, cfg.FastLocationPoll)
	})

	t.Run("Discount provider enabled by its amount variable", func(t *testing.T) {
		t.Setenv("WOOLWORTHS_DISCOUNT", "4")
		t.Setenv("WOOLWORTHS_STATIONS", "100, 200")
		t.Setenv("RACT_DISCOUNT", "junk")

		cfg := LoadUserConfig()
		woolies := cfg.Discount(models.ProviderWoolworths)
		assert.True(t, woolies.Enabled)
		assert.Equal(t, int64(4), woolies.AmountCents)
		assert.Equal(t, []string{"100", "200"}, woolies.AdditionalStations)

		// An unparsable amount still enables the provider as a no-op discount.
		ract := cfg.Discount(models.ProviderRACT)
		assert.True(t, ract.Enabled)
		assert.Zero(t, ract.AmountCents)

		assert.False(t, cfg.Discount(models.ProviderColes).Enabled)
	})

	t.Run("Fuel types filtered against the known list", func(t *testing.T) {
		t.Setenv("FUEL_TYPES", "u91, P98, XXX")
		cfg := LoadUserConfig()
		assert.Equal(t, []string{"U91", "P98"}, cfg.FuelTypes)
	})

	t.Run("Home location needs both coordinates", func(t *testing.T) {
		t.Setenv("HOME_LATITUDE", "-42.8821")
		cfg := LoadUserConfig()
		assert.Nil(t, cfg.HomeLocation)

		t.Setenv("HOME_LONGITUDE", "147.3272")
		cfg = LoadUserConfig()
		require.NotNil(t, cfg.HomeLocation)
		assert.Equal(t, -42.8821, cfg.HomeLocation.Latitude)
		assert.Equal(t, 147.3272, cfg.HomeLocation.Longitude)
	})

	t.Run("Unparsable home location is ignored", func(t *testing.T) {
		t.Setenv("HOME_LATITUDE", "south-a-bit")
		t.Setenv("HOME_LONGITUDE", "147.3272")
		cfg := LoadUserConfig()
		assert.Nil(t, cfg.HomeLocation)
	})
}
