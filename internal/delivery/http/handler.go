package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// Scanner is the slice of the usecase layer the handlers need.
type Scanner interface {
	Scan(ctx context.Context, params domain.ScanParameters) (*domain.ScanResult, error)
	InvalidateSnapshots(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scanner       Scanner
	catalog       domain.CatalogRepository
	market        domain.MarketClient
	defaultRegion string
}

// NewHandler creates a new HTTP handler
func NewHandler(scanner Scanner, catalog domain.CatalogRepository, market domain.MarketClient, defaultRegion string) *Handler {
	return &Handler{
		scanner:       scanner,
		catalog:       catalog,
		market:        market,
		defaultRegion: defaultRegion,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bdo-market-scanner",
		"version": "1.0.0",
	})
}

// Scan runs one profitability pass and returns the ranked rows
func (h *Handler) Scan(c *gin.Context) {
	var req domain.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := domain.ScanParameters{
		Region:       req.Region,
		Mastery:      req.Mastery,
		MinStock:     req.MinStock,
		RequireStock: req.RequireStock,
		Recursive:    req.Recursive,
	}
	if params.Region == "" {
		params.Region = h.defaultRegion
	}
	if req.TaxRate != nil {
		params.TaxRate = *req.TaxRate
	}
	if req.MaxDepth != nil {
		params.MaxDepth = *req.MaxDepth
	}

	result, err := h.scanner.Scan(c.Request.Context(), params)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrInvalidParameters):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrEmptyCatalog), errors.Is(err, domain.ErrNoMarketData):
			status = http.StatusServiceUnavailable
		}
		log.Errorf("scan failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"count":       len(result.Rows),
		"recipes":     result.Recipes,
		"pricedItems": result.PricedItems,
		"source":      result.Source,
		"results":     result.Rows,
	}
	if len(result.Rows) == 0 {
		response["message"] = "no profitable recipes found for these parameters"
	}
	c.JSON(http.StatusOK, response)
}

// CatalogStatus returns the per-file load report
func (h *Handler) CatalogStatus(c *gin.Context) {
	// Force a load so the report is populated on a cold start.
	if _, err := h.catalog.Recipes(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": h.catalog.Status()})
}

// CatalogReload discards the memoized catalog and re-reads it from disk.
// Cached region snapshots are dropped too; they were fetched against the
// old catalog's id set.
func (h *Handler) CatalogReload(c *gin.Context) {
	recipes, err := h.catalog.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.scanner.InvalidateSnapshots(c.Request.Context()); err != nil {
		log.Warnf("catalog reload: snapshot invalidation failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": len(recipes),
		"files":   h.catalog.Status(),
	})
}

// MarketProbe checks whether the upstream market API answers at all from
// this host, using a single known-good item.
func (h *Handler) MarketProbe(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		region = h.defaultRegion
	}

	quote, err := h.market.Probe(c.Request.Context(), region)
	if err != nil {
		log.Warnf("market probe failed for region %s: %v", region, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"reachable": false,
			"region":    region,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reachable": true,
		"region":    region,
		"quote":     quote,
	})
}
