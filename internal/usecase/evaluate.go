package usecase

import (
	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// YieldPolicy holds the game-balance constants behind the per-cycle yield
// multiplier. Processing recipes yield a flat multiple; every other
// category scales with life-skill mastery.
type YieldPolicy struct {
	ProcessingMultiplier float64
	Base                 float64
	Bonus                float64
	MasteryDivisor       float64
	MasteryCoefficient   float64
}

// Multiplier returns the expected units produced per crafting cycle. Pure
// and deterministic in (category, mastery); the mastery term saturates once
// mastery reaches the divisor.
func (p YieldPolicy) Multiplier(category string, mastery float64) float64 {
	if category == domain.CategoryProcessing {
		return p.ProcessingMultiplier
	}
	ratio := mastery / p.MasteryDivisor
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return p.Base + p.Bonus + p.MasteryCoefficient*ratio
}

// EvaluatorConfig holds the policy inputs for the flat evaluator.
type EvaluatorConfig struct {
	VendorCosts   map[int]float64
	Yield         YieldPolicy
	CyclesPerHour float64
}

// Evaluator computes the flat profitability verdict for single recipes
// against one frozen snapshot. It is pure: no state is written, so one
// instance serves any number of concurrent scans.
type Evaluator struct {
	vendorCosts   map[int]float64
	yield         YieldPolicy
	cyclesPerHour float64
}

// NewEvaluator creates an evaluator with the given policy
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{
		vendorCosts:   cfg.VendorCosts,
		yield:         cfg.Yield,
		cyclesPerHour: cfg.CyclesPerHour,
	}
}

// Evaluate computes cost, revenue, and craftability for one recipe.
//
// Evaluation deliberately does not short-circuit on the first unsatisfied
// slot: the cost of the satisfiable slots keeps accumulating so the output
// row stays meaningful for diagnostics, while the recipe is still marked
// uncraftable. The resolver is optional; when present it is consulted for
// options that fail the direct vendor/stock check.
func (e *Evaluator) Evaluate(recipe domain.Recipe, snapshot domain.MarketSnapshot, params domain.ScanParameters, resolver *Resolver) domain.Evaluation {
	sellPrice := snapshot[recipe.Product.ID].Price

	var cost float64
	craftable := true
	var missing *domain.Item

	for _, slot := range recipe.Slots {
		unitPrice, satisfied := e.slotCost(slot, snapshot, params, resolver)
		if !satisfied {
			craftable = false
			if missing == nil && len(slot.Options) > 0 {
				first := slot.Options[0]
				missing = &first
			}
			continue
		}
		cost += unitPrice * float64(slot.Quantity)
	}

	multiplier := e.yield.Multiplier(recipe.Category, params.Mastery)
	revenue := float64(sellPrice) * multiplier * params.TaxRate
	profit := revenue - cost

	return domain.Evaluation{
		Craftable:      craftable,
		Cost:           cost,
		SellPrice:      sellPrice,
		ProfitPerCycle: profit,
		ProfitPerHour:  profit * e.cyclesPerHour,
		Missing:        missing,
	}
}

// slotCost returns the cheapest eligible unit price for a slot. Vendor
// options are always eligible at their nominal cost; market options need a
// snapshot entry with enough stock. The resolver is a fallback, not a
// competitor: it is consulted only when no option passes the direct check,
// so a craftable-but-unlisted alternative can never undercut a slot that is
// already directly satisfied. A recursively unlocked option is priced at
// its listing if one exists and at zero otherwise.
func (e *Evaluator) slotCost(slot domain.IngredientSlot, snapshot domain.MarketSnapshot, params domain.ScanParameters, resolver *Resolver) (float64, bool) {
	var best float64
	found := false

	consider := func(price float64) {
		if !found || price < best {
			best = price
		}
		found = true
	}

	for _, opt := range slot.Options {
		if nominal, isVendor := e.vendorCosts[opt.ID]; isVendor {
			consider(nominal)
			continue
		}
		if quote, listed := snapshot[opt.ID]; listed && quote.Stock >= params.MinStock {
			consider(float64(quote.Price))
		}
	}
	if found || !params.Recursive || resolver == nil {
		return best, found
	}

	for _, opt := range slot.Options {
		if !resolver.Obtainable(opt.ID, params.MaxDepth) {
			continue
		}
		if quote, listed := snapshot[opt.ID]; listed {
			consider(float64(quote.Price))
		} else {
			consider(0)
		}
	}

	return best, found
}
