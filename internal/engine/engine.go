package engine

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

// Engine derives station price views and cheapest-near-me summaries from the
// current price and overlay snapshots. The two snapshots refresh on
// independent cadences and are swapped atomically; every read operates on
// whatever is currently cached, so a fresh price snapshot against a stale
// overlay snapshot (or vice versa) is a normal, supported state. Views are
// recomputed on every read, which also means a reference-location change is
// reflected immediately without waiting for the next poll.
type Engine struct {
	cfg      models.UserConfig
	location LocationSource
	zone     *time.Location

	favourites map[string]bool

	prices  atomic.Pointer[models.PriceSnapshot]
	overlay atomic.Pointer[models.OverlaySnapshot]
}

// New builds an engine over the given configuration. location may be nil, in
// which case proximity filtering is effectively disabled (every station is in
// range). An unloadable display time zone falls back to UTC.
func New(cfg models.UserConfig, location LocationSource) *Engine {
	zoneName := cfg.DisplayTimezone
	if zoneName == "" {
		zoneName = models.DefaultDisplayZone
	}
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		log.Printf("unknown display timezone %q, falling back to UTC", zoneName)
		zone = time.UTC
	}

	favourites := make(map[string]bool, len(cfg.FavouriteStations))
	for _, code := range cfg.FavouriteStations {
		favourites[code] = true
	}

	return &Engine{
		cfg:        cfg,
		location:   location,
		zone:       zone,
		favourites: favourites,
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() models.UserConfig {
	return e.cfg
}

// Zone returns the display time zone derived sensor values are rendered in.
func (e *Engine) Zone() *time.Location {
	return e.zone
}

// SetPriceSnapshot atomically replaces the price snapshot.
func (e *Engine) SetPriceSnapshot(snap *models.PriceSnapshot) {
	e.prices.Store(snap)
}

// SetOverlaySnapshot atomically replaces the overlay snapshot.
func (e *Engine) SetOverlaySnapshot(snap *models.OverlaySnapshot) {
	e.overlay.Store(snap)
}

// PriceSnapshot returns the current price snapshot, nil before the first fetch.
func (e *Engine) PriceSnapshot() *models.PriceSnapshot {
	return e.prices.Load()
}

// OverlaySnapshot returns the current overlay snapshot, never nil.
func (e *Engine) OverlaySnapshot() *models.OverlaySnapshot {
	if snap := e.overlay.Load(); snap != nil {
		return snap
	}
	return &models.OverlaySnapshot{}
}

// RefreshLocation re-reads the location source. Derivations always read the
// live source, so this only exists to keep a polled source warm and to log
// availability transitions during fast location polling.
func (e *Engine) RefreshLocation() {
	if e.location == nil {
		return
	}
	if _, ok := e.location.Current(); !ok {
		log.Printf("reference location currently unresolvable, proximity failing open")
	}
}

// Views derives a StationPriceView for every station in the current snapshot
// for the given fuel type, preserving snapshot station order. A station with
// no matching price yields an unavailable marker view, never an error.
func (e *Engine) Views(fuelType string) []models.StationPriceView {
	snap := e.prices.Load()
	if snap == nil {
		return nil
	}
	overlay := e.OverlaySnapshot()
	byStation := snap.PricesByStation()

	views := make([]models.StationPriceView, 0, len(snap.Stations))
	for i := range snap.Stations {
		station := &snap.Stations[i]
		rec := firstRecord(byStation[string(station.Code)], fuelType)
		views = append(views, e.buildView(station, fuelType, rec, overlay))
	}
	return views
}

// StationDetail derives the full-detail projection for one station: a view
// per price record at the station, with the most recent source update across
// all fuel types. ok is false when the station is not in the snapshot.
func (e *Engine) StationDetail(code string) (models.StationDetail, bool) {
	snap := e.prices.Load()
	if snap == nil {
		return models.StationDetail{}, false
	}
	station, ok := snap.StationsByCode()[code]
	if !ok {
		return models.StationDetail{}, false
	}
	overlay := e.OverlaySnapshot()

	records := snap.PricesByStation()[code]
	prices := make([]models.StationPriceView, 0, len(records))
	var latest time.Time
	lastUpdated := timestampUnknown
	for _, rec := range records {
		prices = append(prices, e.buildView(station, rec.FuelType, rec, overlay))
		t, sentinel := parseSourceTimestamp(rec.LastUpdated)
		if sentinel == "" {
			if latest.IsZero() || t.After(latest) {
				latest = t
			}
		} else if sentinel == timestampInvalid && lastUpdated == timestampUnknown {
			lastUpdated = timestampInvalid
		}
	}
	if !latest.IsZero() {
		lastUpdated = latest.In(e.zone).Format(displayTimeLayout)
	}

	return models.StationDetail{
		Station:     *station,
		Prices:      prices,
		LastUpdated: lastUpdated,
	}, true
}

// Favourites derives the full-detail projection for each favourite station,
// in configured order, regardless of price rank or range. Favourites missing
// from the current snapshot are skipped.
func (e *Engine) Favourites() []models.StationDetail {
	details := make([]models.StationDetail, 0, len(e.cfg.FavouriteStations))
	for _, code := range e.cfg.FavouriteStations {
		if detail, ok := e.StationDetail(code); ok {
			details = append(details, detail)
		}
	}
	return details
}

// firstRecord returns the first record matching the fuel type; the snapshot
// contract allows at most one per (station, fuel type) pair.
func firstRecord(records []*models.PriceRecord, fuelType string) *models.PriceRecord {
	for _, rec := range records {
		if rec.FuelType == fuelType {
			return rec
		}
	}
	return nil
}
