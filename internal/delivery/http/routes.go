package http

import (
	"github.com/gin-gonic/gin"

	"github.com/monsirenc/BDO-Market-Scanner/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/scan", handler.Scan)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/status", handler.CatalogStatus)
			catalog.POST("/reload", handler.CatalogReload)
		}

		market := v1.Group("/market")
		{
			market.GET("/probe", handler.MarketProbe)
		}
	}

	return router
}
