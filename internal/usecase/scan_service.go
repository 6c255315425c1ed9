package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// maxDepthCeiling bounds client-supplied recursion budgets. The recipe
// graph is shallow; anything deeper only burns memo entries.
const maxDepthCeiling = 10

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	CacheTTL        time.Duration
	VendorCosts     map[int]float64
	Yield           YieldPolicy
	CyclesPerHour   float64
	DefaultTaxRate  float64
	DefaultMaxDepth int
}

// ScanService runs one profitability pass: catalog in, snapshot in, ranked
// rows out.
type ScanService struct {
	catalog   domain.CatalogRepository
	market    domain.MarketClient
	cache     domain.CacheRepository
	evaluator *Evaluator

	cacheTTL        time.Duration
	vendorCosts     map[int]float64
	defaultTaxRate  float64
	defaultMaxDepth int
}

// NewScanService creates a scan service with its collaborators
func NewScanService(
	catalog domain.CatalogRepository,
	market domain.MarketClient,
	cache domain.CacheRepository,
	cfg ScanServiceConfig,
) *ScanService {
	evaluator := NewEvaluator(EvaluatorConfig{
		VendorCosts:   cfg.VendorCosts,
		Yield:         cfg.Yield,
		CyclesPerHour: cfg.CyclesPerHour,
	})

	return &ScanService{
		catalog:         catalog,
		market:          market,
		cache:           cache,
		evaluator:       evaluator,
		cacheTTL:        cfg.CacheTTL,
		vendorCosts:     cfg.VendorCosts,
		defaultTaxRate:  cfg.DefaultTaxRate,
		defaultMaxDepth: cfg.DefaultMaxDepth,
	}
}

// Scan evaluates every catalog recipe against a single frozen snapshot and
// returns a stable ranking by descending hourly profit.
// Flow: validate params -> load catalog -> snapshot (cache or fetch) ->
// evaluate -> filter -> rank.
func (s *ScanService) Scan(ctx context.Context, params domain.ScanParameters) (*domain.ScanResult, error) {
	if err := s.normalizeParams(&params); err != nil {
		return nil, err
	}

	recipes, err := s.catalog.Recipes()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(recipes) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	snapshot, source, err := s.snapshot(ctx, params.Region, recipes)
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return nil, domain.ErrNoMarketData
	}

	var resolver *Resolver
	if params.Recursive {
		resolver = NewResolver(recipes, snapshot, s.vendorCosts, params.MinStock)
	}

	rows := make([]domain.RankedRow, 0, len(recipes))
	for _, recipe := range recipes {
		eval := s.evaluator.Evaluate(recipe, snapshot, params, resolver)

		// Unsellable recipes are filtered, not errored.
		if eval.SellPrice == 0 {
			continue
		}
		if params.RequireStock && !eval.Craftable {
			continue
		}

		missing := ""
		if eval.Missing != nil {
			missing = eval.Missing.Name
		}
		rows = append(rows, domain.RankedRow{
			Name:          recipe.Product.Name,
			ProfitPerHour: int64(eval.ProfitPerHour),
			Cost:          int64(eval.Cost),
			SellPrice:     eval.SellPrice,
			Craftable:     eval.Craftable,
			Missing:       missing,
		})
	}

	// Stable sort keeps catalog order as the deterministic tiebreaker.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProfitPerHour > rows[j].ProfitPerHour
	})

	return &domain.ScanResult{
		Rows:        rows,
		Recipes:     len(recipes),
		PricedItems: len(snapshot),
		Source:      source,
	}, nil
}

// InvalidateSnapshots drops every cached region snapshot. Called after a
// catalog reload: a snapshot fetched against the old catalog's id set may
// be missing items the new catalog references.
func (s *ScanService) InvalidateSnapshots(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// normalizeParams fills configured defaults into unset fields and rejects
// out-of-range values.
func (s *ScanService) normalizeParams(params *domain.ScanParameters) error {
	if params.Region == "" {
		return fmt.Errorf("%w: region is required", domain.ErrInvalidParameters)
	}
	if params.Mastery < 0 {
		return fmt.Errorf("%w: mastery must be non-negative", domain.ErrInvalidParameters)
	}
	if params.MinStock < 0 {
		return fmt.Errorf("%w: minimum stock must be non-negative", domain.ErrInvalidParameters)
	}

	if params.TaxRate == 0 {
		params.TaxRate = s.defaultTaxRate
	}
	if params.TaxRate <= 0 || params.TaxRate > 1 {
		return fmt.Errorf("%w: tax rate must be in (0,1], got %v", domain.ErrInvalidParameters, params.TaxRate)
	}

	if params.MaxDepth <= 0 {
		params.MaxDepth = s.defaultMaxDepth
	}
	if params.MaxDepth > maxDepthCeiling {
		params.MaxDepth = maxDepthCeiling
	}

	return nil
}

// snapshot returns the market snapshot for a region, reusing a recent one
// from cache when the TTL allows. Cache failures degrade to a fetch; store
// failures are logged and ignored.
func (s *ScanService) snapshot(ctx context.Context, region string, recipes []domain.Recipe) (domain.MarketSnapshot, string, error) {
	key := "snapshot:" + strings.ToLower(region)

	if s.cacheTTL > 0 {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			return cached, "Cache", nil
		}
	}

	ids := referencedItemIDs(recipes, s.vendorCosts)
	snapshot, err := s.market.Fetch(ctx, region, ids)
	if err != nil {
		return nil, "", fmt.Errorf("fetch market data: %w", err)
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, snapshot, s.cacheTTL); err != nil {
			log.Warnf("scan: snapshot cache store failed: %v", err)
		}
	}

	return snapshot, "Market", nil
}

// referencedItemIDs collects every product and ingredient-option id the
// catalog mentions, minus vendor items, which are never market-queried.
func referencedItemIDs(recipes []domain.Recipe, vendorCosts map[int]float64) []int {
	seen := make(map[int]struct{})
	for _, r := range recipes {
		seen[r.Product.ID] = struct{}{}
		for _, slot := range r.Slots {
			for _, opt := range slot.Options {
				seen[opt.ID] = struct{}{}
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		if _, isVendor := vendorCosts[id]; isVendor {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
