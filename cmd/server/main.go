package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/monsirenc/BDO-Market-Scanner/config"
	httpDelivery "github.com/monsirenc/BDO-Market-Scanner/internal/delivery/http"
	"github.com/monsirenc/BDO-Market-Scanner/internal/infrastructure/arsha"
	"github.com/monsirenc/BDO-Market-Scanner/internal/infrastructure/cache"
	"github.com/monsirenc/BDO-Market-Scanner/internal/infrastructure/catalog"
	"github.com/monsirenc/BDO-Market-Scanner/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Environment == "development" {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("Starting BDO Market Scanner v1.0.0")
	log.Infof("Environment: %s", cfg.Server.Environment)
	log.Infof("Port: %s", cfg.Server.Port)
	log.Infof("Default region: %s", cfg.Market.Region)
	log.Infof("Snapshot cache TTL: %s", cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	catalogRepo := catalog.NewRepository(cfg.Catalog)
	marketClient := arsha.NewClient(cfg.Market)

	// Load the catalog up front so a broken recipe directory fails the
	// boot instead of the first scan.
	recipes, err := catalogRepo.Recipes()
	if err != nil {
		log.Fatalf("Failed to load recipe catalog from %s: %v", cfg.Catalog.Dir, err)
	}
	log.Infof("Recipe catalog: %d recipes from %s", len(recipes), cfg.Catalog.Dir)
	for _, st := range catalogRepo.Status() {
		if st.Err != "" {
			log.Warnf("Catalog file %s: %s", st.File, st.Err)
			continue
		}
		log.Infof("Catalog file %s: %d loaded, %d skipped", st.File, st.Loaded, st.Skipped)
	}

	// Initialize usecase layer
	scanService := usecase.NewScanService(
		catalogRepo,
		marketClient,
		memoryCache,
		usecase.ScanServiceConfig{
			CacheTTL:    cfg.Cache.TTL,
			VendorCosts: cfg.Scan.VendorCosts(),
			Yield: usecase.YieldPolicy{
				ProcessingMultiplier: cfg.Scan.Yield.ProcessingMultiplier,
				Base:                 cfg.Scan.Yield.Base,
				Bonus:                cfg.Scan.Yield.Bonus,
				MasteryDivisor:       cfg.Scan.Yield.MasteryDivisor,
				MasteryCoefficient:   cfg.Scan.Yield.MasteryCoefficient,
			},
			CyclesPerHour:   cfg.Scan.CyclesPerHour,
			DefaultTaxRate:  cfg.Scan.TaxRate,
			DefaultMaxDepth: cfg.Scan.MaxDepth,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scanService, catalogRepo, marketClient, cfg.Market.Region)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
