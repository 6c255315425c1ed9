package usecase

import (
	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// memoKey caches resolver answers per (item, residual depth). Keying by
// item alone would be unsound: a failure with a shallow budget must not be
// reused for a query with depth to spare.
type memoKey struct {
	itemID int
	depth  int
}

// Resolver answers whether an item is obtainable: directly from a vendor or
// an in-stock market listing, or transitively craftable from obtainable
// sub-ingredients within a bounded number of recipe expansions.
//
// A resolver is built once per scan against one frozen snapshot; it is not
// safe for concurrent use because of the memo map.
type Resolver struct {
	snapshot    domain.MarketSnapshot
	vendorCosts map[int]float64
	minStock    int64
	byProduct   map[int][]domain.Recipe
	memo        map[memoKey]bool
}

// NewResolver indexes the catalog by product id. Every recipe for a product
// stays in the index: the product is obtainable if any one of them resolves.
func NewResolver(recipes []domain.Recipe, snapshot domain.MarketSnapshot, vendorCosts map[int]float64, minStock int64) *Resolver {
	byProduct := make(map[int][]domain.Recipe)
	for _, r := range recipes {
		byProduct[r.Product.ID] = append(byProduct[r.Product.ID], r)
	}

	return &Resolver{
		snapshot:    snapshot,
		vendorCosts: vendorCosts,
		minStock:    minStock,
		byProduct:   byProduct,
		memo:        make(map[memoKey]bool),
	}
}

// Obtainable reports whether itemID resolves within depth recipe
// expansions. Termination is guaranteed by the strictly decreasing depth:
// cycles in the recipe graph simply exhaust the budget and come back false.
func (r *Resolver) Obtainable(itemID, depth int) bool {
	if _, isVendor := r.vendorCosts[itemID]; isVendor {
		return true
	}
	if quote, listed := r.snapshot[itemID]; listed && quote.Stock >= r.minStock {
		return true
	}
	if depth <= 0 {
		return false
	}

	key := memoKey{itemID: itemID, depth: depth}
	if cached, hit := r.memo[key]; hit {
		return cached
	}

	result := false
	for _, recipe := range r.byProduct[itemID] {
		if r.recipeResolves(recipe, depth-1) {
			result = true
			break
		}
	}

	r.memo[key] = result
	return result
}

// recipeResolves requires every slot to have at least one obtainable
// option. A recipe with no slots resolves trivially.
func (r *Resolver) recipeResolves(recipe domain.Recipe, depth int) bool {
	for _, slot := range recipe.Slots {
		satisfied := false
		for _, opt := range slot.Options {
			if r.Obtainable(opt.ID, depth) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
