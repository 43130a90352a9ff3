package internal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

func setupTestDB(t *testing.T) SnapshotRepository {
	tmpFile, err := os.CreateTemp("", "tas_fuel_prices_test-*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	_ = tmpFile.Close()

	t.Cleanup(func() {
		_ = os.Remove(dbPath)
	})

	db, err := Connect(dbPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	err = Migrate("../migrations", dbPath)
	require.NoError(t, err)
	return NewSnapshotRepository(db)
}

func intp(v int64) *int64 { return &v }

func TestSnapshotRoundTrip(t *testing.T) {
	repo := setupTestDB(t)

	t.Run("Empty cache loads as nil", func(t *testing.T) {
		snap, err := repo.LoadPriceSnapshot()
		require.NoError(t, err)
		assert.Nil(t, snap)

		overlay, err := repo.LoadOverlaySnapshot()
		require.NoError(t, err)
		assert.Nil(t, overlay)
	})

	fetchedAt := time.Now().UTC().Truncate(time.Second)
	snap := &models.PriceSnapshot{
		Stations: []models.Station{
			{
				Code:     "200",
				Name:     "United Hobart",
				Address:  "1 Main Rd",
				Brand:    "United",
				Location: &models.Coordinates{Latitude: -42.88, Longitude: 147.33},
			},
			{Code: "100", Name: "No Location Servo"},
		},
		Prices: []models.PriceRecord{
			{StationCode: "200", FuelType: "U91", Price: intp(1899), LastUpdated: "01/06/2025 10:00:00"},
			{StationCode: "200", FuelType: "DL", Price: nil},
			{StationCode: "100", FuelType: "U91", Price: intp(1750), LastUpdated: "01/06/2025 09:00:00"},
		},
		FetchedAt: fetchedAt,
	}

	require.NoError(t, repo.SavePriceSnapshot(snap))

	t.Run("Price snapshot round trip", func(t *testing.T) {
		loaded, err := repo.LoadPriceSnapshot()
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.True(t, loaded.FetchedAt.Equal(fetchedAt))
		require.Len(t, loaded.Stations, 2)

		// Snapshot order survives the round trip.
		assert.Equal(t, models.Code("200"), loaded.Stations[0].Code)
		assert.Equal(t, models.Code("100"), loaded.Stations[1].Code)

		require.NotNil(t, loaded.Stations[0].Location)
		assert.Equal(t, -42.88, loaded.Stations[0].Location.Latitude)
		assert.Nil(t, loaded.Stations[1].Location)

		require.Len(t, loaded.Prices, 3)
		require.NotNil(t, loaded.Prices[0].Price)
		assert.Equal(t, int64(1899), *loaded.Prices[0].Price)
		assert.Nil(t, loaded.Prices[1].Price)
		assert.Equal(t, "01/06/2025 10:00:00", loaded.Prices[0].LastUpdated)
	})

	t.Run("A new snapshot replaces the old one wholesale", func(t *testing.T) {
		replacement := &models.PriceSnapshot{
			Stations:  []models.Station{{Code: "300", Name: "New Servo"}},
			Prices:    []models.PriceRecord{{StationCode: "300", FuelType: "P98", Price: intp(2100)}},
			FetchedAt: fetchedAt.Add(time.Hour),
		}
		require.NoError(t, repo.SavePriceSnapshot(replacement))

		loaded, err := repo.LoadPriceSnapshot()
		require.NoError(t, err)
		require.Len(t, loaded.Stations, 1)
		assert.Equal(t, models.Code("300"), loaded.Stations[0].Code)
		require.Len(t, loaded.Prices, 1)
	})

	t.Run("Overlay snapshot round trip", func(t *testing.T) {
		overlay := &models.OverlaySnapshot{
			DiscountStations: map[string]map[string]bool{
				"woolworths": {"100": true},
			},
			TyreInflation: map[string]bool{"200": true},
			Distributors:  map[string]string{"100": "Mogas"},
			Operators:     map[string]string{},
			FetchedAt:     fetchedAt,
		}
		require.NoError(t, repo.SaveOverlaySnapshot(overlay))

		loaded, err := repo.LoadOverlaySnapshot()
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.True(t, loaded.DiscountStations["woolworths"]["100"])
		assert.True(t, loaded.TyreInflation["200"])
		assert.Equal(t, "Mogas", loaded.Distributors["100"])
	})
}
