package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ziogref/tas-fuel-prices-api/internal"
	"github.com/ziogref/tas-fuel-prices-api/internal/routes"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(dbPath string, port int, debug bool) error {

	client, overlayClient, repo, eng, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	// First refresh happens inline so the server starts with current data;
	// subsequent cycles run on their own cadences.
	internal.RefreshOverlay(overlayClient, repo, eng)
	if err := internal.RefreshPrices(client, repo, eng); err != nil {
		log.Printf("initial price refresh failed, serving cached snapshot: %v", err)
	}

	scheduler, err := internal.StartCron(client, overlayClient, repo, eng)
	if err != nil {
		return fmt.Errorf("failed to start CRON jobs: %w", err)
	}
	defer scheduler.Stop()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1/fuel-prices")
	v1.GET("/views", routes.Views(eng))
	v1.GET("/cheapest", routes.Cheapest(eng))
	v1.GET("/favourites", routes.Favourites(eng))
	v1.GET("/station/:code", routes.StationDetail(eng))
	v1.GET("/stats", routes.Stats(eng))
	v1.GET("/token-expiry", routes.TokenExpiry(client, eng.Zone()))
	v1.POST("/refresh", routes.RefreshPrices(client, repo, eng))
	v1.POST("/refresh-overlay", routes.RefreshOverlay(client, overlayClient, repo, eng))
	v1.POST("/refresh-token", routes.RefreshToken(client, repo, eng))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	return nil
}
