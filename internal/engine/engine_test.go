package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

func cents(v int64) *int64 { return &v }

func station(code string, loc *models.Coordinates) models.Station {
	return models.Station{
		Code:     models.Code(code),
		Name:     "Station " + code,
		Address:  code + " Main Rd",
		Brand:    "United",
		Location: loc,
	}
}

func priceRecord(code, fuelType string, price *int64, lastUpdated string) models.PriceRecord {
	return models.PriceRecord{
		StationCode: models.Code(code),
		FuelType:    fuelType,
		Price:       price,
		LastUpdated: lastUpdated,
	}
}

func testConfig() models.UserConfig {
	return models.UserConfig{
		FuelTypes:       []string{"U91"},
		RangeKm:         5,
		DisplayTimezone: "UTC",
	}
}

func TestEngineSnapshots(t *testing.T) {
	t.Run("No price snapshot yields no views", func(t *testing.T) {
		eng := New(testConfig(), nil)
		assert.Nil(t, eng.Views("U91"))

		_, ok := eng.StationDetail("100")
		assert.False(t, ok)
	})

	t.Run("Price snapshot without overlay still derives views", func(t *testing.T) {
		eng := New(testConfig(), nil)
		eng.SetPriceSnapshot(&models.PriceSnapshot{
			Stations: []models.Station{station("100", nil)},
			Prices:   []models.PriceRecord{priceRecord("100", "U91", cents(1800), "")},
		})

		views := eng.Views("U91")
		require.Len(t, views, 1)
		assert.True(t, views[0].Available)
		assert.Equal(t, NoDiscount, views[0].DiscountProvider)
		assert.Equal(t, "No data found", views[0].Distributor)
	})

	t.Run("Overlay swap changes derived views on next read", func(t *testing.T) {
		cfg := testConfig()
		cfg.Discounts = map[models.DiscountProvider]models.DiscountConfig{
			models.ProviderWoolworths: {Enabled: true, AmountCents: 4},
		}
		eng := New(cfg, nil)
		eng.SetPriceSnapshot(&models.PriceSnapshot{
			Stations: []models.Station{station("100", nil)},
			Prices:   []models.PriceRecord{priceRecord("100", "U91", cents(1800), "")},
		})

		views := eng.Views("U91")
		require.Len(t, views, 1)
		assert.Equal(t, int64(1800), views[0].DiscountedPriceCents)

		eng.SetOverlaySnapshot(overlayWithSets(map[string][]string{"woolworths": {"100"}}))
		views = eng.Views("U91")
		require.Len(t, views, 1)
		assert.Equal(t, int64(1796), views[0].DiscountedPriceCents)
		assert.Equal(t, "Woolworths", views[0].DiscountProvider)
	})

	t.Run("New price snapshot against stale overlay", func(t *testing.T) {
		eng := New(testConfig(), nil)
		eng.SetOverlaySnapshot(overlayWithSets(map[string][]string{"woolworths": {"100"}}))

		// Overlay arrived first; price snapshot is still missing.
		assert.Nil(t, eng.Views("U91"))

		eng.SetPriceSnapshot(&models.PriceSnapshot{
			Stations: []models.Station{station("999", nil)},
			Prices:   []models.PriceRecord{priceRecord("999", "U91", cents(1700), "")},
		})
		views := eng.Views("U91")
		require.Len(t, views, 1)
		assert.Equal(t, "999", views[0].StationCode)
	})
}

func TestStationDetail(t *testing.T) {
	cfg := testConfig()
	cfg.FavouriteStations = []string{"200", "100"}
	eng := New(cfg, nil)
	eng.SetPriceSnapshot(&models.PriceSnapshot{
		Stations: []models.Station{station("100", nil), station("200", nil)},
		Prices: []models.PriceRecord{
			priceRecord("100", "U91", cents(1800), "01/06/2025 10:00:00"),
			priceRecord("100", "DL", cents(1950), "02/06/2025 08:30:00"),
			priceRecord("200", "U91", cents(1750), ""),
		},
	})

	t.Run("All prices at the station", func(t *testing.T) {
		detail, ok := eng.StationDetail("100")
		require.True(t, ok)
		require.Len(t, detail.Prices, 2)
		assert.Equal(t, "U91", detail.Prices[0].FuelType)
		assert.Equal(t, "DL", detail.Prices[1].FuelType)
		assert.True(t, detail.Prices[0].IsFavourite)
	})

	t.Run("Most recent timestamp wins", func(t *testing.T) {
		detail, ok := eng.StationDetail("100")
		require.True(t, ok)
		assert.Equal(t, "2025-06-02 08:30:00", detail.LastUpdated)
	})

	t.Run("No timestamps reads Unknown", func(t *testing.T) {
		detail, ok := eng.StationDetail("200")
		require.True(t, ok)
		assert.Equal(t, "Unknown", detail.LastUpdated)
	})

	t.Run("Unknown station", func(t *testing.T) {
		_, ok := eng.StationDetail("300")
		assert.False(t, ok)
	})

	t.Run("Favourites follow configured order and skip missing", func(t *testing.T) {
		favourites := eng.Favourites()
		require.Len(t, favourites, 2)
		assert.Equal(t, models.Code("200"), favourites[0].Station.Code)
		assert.Equal(t, models.Code("100"), favourites[1].Station.Code)

		cfg := testConfig()
		cfg.FavouriteStations = []string{"404", "100"}
		other := New(cfg, nil)
		other.SetPriceSnapshot(eng.PriceSnapshot())
		favourites = other.Favourites()
		require.Len(t, favourites, 1)
		assert.Equal(t, models.Code("100"), favourites[0].Station.Code)
	})
}
