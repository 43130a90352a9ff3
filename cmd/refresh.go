package cmd

import (
	"fmt"
	"log"

	"github.com/ziogref/tas-fuel-prices-api/internal"
)

// Refresh performs a one-shot fetch of both snapshots into the cache.
func Refresh(dbPath string) error {

	client, overlayClient, repo, eng, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	internal.RefreshOverlay(overlayClient, repo, eng)

	if err := internal.RefreshPrices(client, repo, eng); err != nil {
		return fmt.Errorf("failed to fetch fuel prices: %w", err)
	}

	snap := eng.PriceSnapshot()
	log.Printf("refreshed %d stations and %d price records", len(snap.Stations), len(snap.Prices))

	return nil
}
