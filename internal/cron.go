package internal

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/ziogref/tas-fuel-prices-api/internal/engine"
)

const CRON_SCHEDULE_PRICES = "5 * * * *"    // Hourly, 5 past
const CRON_SCHEDULE_OVERLAY = "15 4 * * *"  // Daily
const CRON_SCHEDULE_LOCATION = "* * * * *"  // Fast location mode only

var refreshCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fuel_prices_refresh_total",
	Help: "Snapshot refresh cycles by kind and outcome.",
}, []string{"kind", "status"})

// RefreshPrices runs one price refresh cycle: fetch, write through to the
// cache, swap the engine snapshot.
func RefreshPrices(client FuelPricesClient, repo SnapshotRepository, eng *engine.Engine) error {
	snap, err := client.FetchPrices()
	if err != nil {
		refreshCounter.WithLabelValues("prices", "error").Inc()
		return err
	}
	if err := repo.SavePriceSnapshot(snap); err != nil {
		log.Printf("failed to cache price snapshot: %v", err)
	}
	eng.SetPriceSnapshot(snap)
	refreshCounter.WithLabelValues("prices", "ok").Inc()
	return nil
}

// RefreshOverlay runs one overlay refresh cycle. Fault containment happens
// per provider inside the client, so the cycle itself always succeeds.
func RefreshOverlay(client OverlayClient, repo SnapshotRepository, eng *engine.Engine) {
	snap := client.FetchOverlay()
	if err := repo.SaveOverlaySnapshot(snap); err != nil {
		log.Printf("failed to cache overlay snapshot: %v", err)
	}
	eng.SetOverlaySnapshot(snap)
	refreshCounter.WithLabelValues("overlay", "ok").Inc()
}

// StartCron schedules the two refresh cadences (prices far more often than
// overlay data) and, when fast location polling is enabled, a minute-cadence
// location re-read. The returned cron must be stopped on shutdown so no
// orphaned periodic triggers survive reconfiguration.
func StartCron(
	client FuelPricesClient,
	overlayClient OverlayClient,
	repo SnapshotRepository,
	eng *engine.Engine,
) (*cron.Cron, error) {
	c := cron.New()

	log.Print("starting CRON jobs to refresh price and overlay snapshots")

	if _, err := c.AddFunc(CRON_SCHEDULE_PRICES, func() {
		if err := RefreshPrices(client, repo, eng); err != nil {
			log.Printf("error refreshing prices: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(CRON_SCHEDULE_OVERLAY, func() {
		RefreshOverlay(overlayClient, repo, eng)
	}); err != nil {
		return nil, err
	}

	if eng.Config().FastLocationPoll {
		if _, err := c.AddFunc(CRON_SCHEDULE_LOCATION, eng.RefreshLocation); err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}
