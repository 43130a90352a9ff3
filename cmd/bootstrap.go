package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/ziogref/tas-fuel-prices-api/internal"
	"github.com/ziogref/tas-fuel-prices-api/internal/engine"
)

// bootstrap initialises shared resources used by both the API server and
// refresh commands: the authenticated pricing client, the overlay client, the
// snapshot cache, and the derivation engine (warm-started from the cache when
// one exists).
func bootstrap(dbPath string) (internal.FuelPricesClient, internal.OverlayClient, internal.SnapshotRepository, *engine.Engine, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	clientId := os.Getenv("CLIENT_ID")
	clientSecret := os.Getenv("CLIENT_SECRET")

	client, err := internal.NewFuelPricesClient(clientId, clientSecret)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("pricing API authentication failed: %w", err)
	}

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := internal.Migrate("migrations", dbPath); err != nil {
		_ = db.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to migrate SQL: %w", err)
	}

	repo := internal.NewSnapshotRepository(db)
	overlayClient := internal.NewOverlayClient()

	cfg := internal.LoadUserConfig()
	var location engine.LocationSource
	if cfg.HomeLocation != nil {
		location = engine.FixedLocation(*cfg.HomeLocation)
	}
	eng := engine.New(cfg, location)

	warmStart(repo, eng)

	return client, overlayClient, repo, eng, nil
}

// warmStart seeds the engine from the snapshot cache so derived views are
// servable before the first poll completes. Cache misses are not errors.
func warmStart(repo internal.SnapshotRepository, eng *engine.Engine) {
	if snap, err := repo.LoadPriceSnapshot(); err != nil {
		log.Printf("failed to load cached price snapshot: %v", err)
	} else if snap != nil {
		log.Printf("warm-starting with cached snapshot of %d stations from %s",
			len(snap.Stations), snap.FetchedAt)
		eng.SetPriceSnapshot(snap)
	}

	if snap, err := repo.LoadOverlaySnapshot(); err != nil {
		log.Printf("failed to load cached overlay snapshot: %v", err)
	} else if snap != nil {
		eng.SetOverlaySnapshot(snap)
	}
}
