package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ziogref/tas-fuel-prices-api/internal"
	"github.com/ziogref/tas-fuel-prices-api/internal/engine"
)

// RefreshPrices triggers an immediate price snapshot refresh.
func RefreshPrices(client internal.FuelPricesClient, repo internal.SnapshotRepository, eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := internal.RefreshPrices(client, repo, eng); err != nil {
			log.Printf("manual price refresh failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "price refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "refreshed", "stations": len(eng.PriceSnapshot().Stations)})
	}
}

// RefreshOverlay triggers an immediate overlay refresh followed by a price
// refresh, so derived views pick the new lists up straight away.
func RefreshOverlay(
	client internal.FuelPricesClient,
	overlayClient internal.OverlayClient,
	repo internal.SnapshotRepository,
	eng *engine.Engine,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		internal.RefreshOverlay(overlayClient, repo, eng)
		if err := internal.RefreshPrices(client, repo, eng); err != nil {
			log.Printf("price refresh after overlay refresh failed: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
	}
}

// RefreshToken forces the API client to discard its access token, then
// refreshes prices so the new token is exercised immediately.
func RefreshToken(client internal.FuelPricesClient, repo internal.SnapshotRepository, eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		client.ForceTokenRefresh()
		if err := internal.RefreshPrices(client, repo, eng); err != nil {
			log.Printf("price refresh after token refresh failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "token refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
	}
}

// TokenExpiry reports when the current access token expires, rendered in the
// given display zone.
func TokenExpiry(client internal.FuelPricesClient, zone *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		expiry := client.TokenExpiry()
		if expiry == nil {
			c.JSON(http.StatusOK, gin.H{"token_expiry": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token_expiry": expiry.In(zone).Format("2006-01-02 15:04:05"),
		})
	}
}
