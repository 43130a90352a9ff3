package engine

import "github.com/ziogref/tas-fuel-prices-api/internal/models"

// LocationSource yields the current reference location. Current reports
// ok=false when no coordinate is resolvable right now.
type LocationSource interface {
	Current() (models.Coordinates, bool)
}

// FixedLocation is a LocationSource pinned to one coordinate (a configured
// home location).
type FixedLocation models.Coordinates

func (f FixedLocation) Current() (models.Coordinates, bool) {
	return models.Coordinates(f), true
}

// Proximity is the outcome of classifying one station against the reference
// location. DistanceKm is nil whenever a distance could not be computed.
type Proximity struct {
	DistanceKm *float64
	InRange    bool
}

// EvaluateProximity classifies a station coordinate against the reference
// location and configured range. It fails open: with no location source, an
// unresolvable reference coordinate, or a station without a location, the
// station counts as in range so transient location loss never hides stations.
func EvaluateProximity(station *models.Coordinates, source LocationSource, rangeKm float64) Proximity {
	if source == nil || station == nil {
		return Proximity{InRange: true}
	}
	ref, ok := source.Current()
	if !ok {
		return Proximity{InRange: true}
	}
	d := Haversine(ref.Latitude, ref.Longitude, station.Latitude, station.Longitude)
	return Proximity{DistanceKm: &d, InRange: d <= rangeKm}
}
