package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ziogref/tas-fuel-prices-api/internal/engine"
	"github.com/ziogref/tas-fuel-prices-api/internal/stats"
)

// fuelParam resolves the ?fuel= query parameter against the configured fuel
// types, defaulting to the first configured type.
func fuelParam(c *gin.Context, eng *engine.Engine) (string, bool) {
	configured := eng.Config().FuelTypes
	fuel := c.Query("fuel")
	if fuel == "" {
		return configured[0], true
	}
	for _, ft := range configured {
		if ft == fuel {
			return fuel, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "fuel type not tracked: " + fuel})
	return "", false
}

// Views serves every derived station price view for a fuel type. An optional
// ?top=N restricts the response to the N cheapest in-range stations.
func Views(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuel, ok := fuelParam(c, eng)
		if !ok {
			return
		}

		if topStr := c.Query("top"); topStr != "" {
			top, err := strconv.Atoi(topStr)
			if err != nil || top < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid top parameter"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"fuel_type": fuel, "views": eng.Top(fuel, top)})
			return
		}

		c.JSON(http.StatusOK, gin.H{"fuel_type": fuel, "views": eng.Views(fuel)})
	}
}

// Cheapest serves the cheapest-near-me summary for a fuel type. An empty
// qualifying set is a 204, not an error.
func Cheapest(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuel, ok := fuelParam(c, eng)
		if !ok {
			return
		}
		summary := eng.Cheapest(fuel)
		if summary.DisplayPrice == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// Favourites serves the full-detail projection of each favourite station.
func Favourites(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"favourites": eng.Favourites()})
	}
}

// StationDetail serves the full-detail projection for one station code.
func StationDetail(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, ok := eng.StationDetail(c.Param("code"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "station not present in the current snapshot"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// Stats serves derived price statistics for a fuel type.
func Stats(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuel, ok := fuelParam(c, eng)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stats.Derive(fuel, eng.Views(fuel), 3))
	}
}
