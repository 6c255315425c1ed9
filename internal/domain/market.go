package domain

// MarketQuote is the current central-market listing for one item id.
type MarketQuote struct {
	Price int64 `json:"price"` // unit price in silver
	Stock int64 `json:"stock"`
}

// MarketSnapshot maps item id to its quote. It is produced once per scan
// and read-only for the whole ranking pass. A missing id means the item is
// currently unpriced, not that it is free.
type MarketSnapshot map[int]MarketQuote

// ScanParameters is the per-invocation parameter set for one profitability
// pass. It is passed explicitly through the engine; nothing reads it from
// ambient state.
type ScanParameters struct {
	Region       string
	Mastery      float64
	TaxRate      float64 // fraction of the sale the seller keeps, in (0,1]
	MinStock     int64
	RequireStock bool
	Recursive    bool
	MaxDepth     int
}

// Evaluation is the flat profitability verdict for one recipe.
type Evaluation struct {
	Craftable      bool
	Cost           float64
	SellPrice      int64
	ProfitPerCycle float64
	ProfitPerHour  float64
	// Missing is the first declared option of the first unsatisfied slot,
	// kept for the output table. Nil when every slot is satisfied.
	Missing *Item
}

// RankedRow is one line of scanner output.
type RankedRow struct {
	Name          string `json:"name"`
	ProfitPerHour int64  `json:"profitPerHour"`
	Cost          int64  `json:"cost"`
	SellPrice     int64  `json:"sellPrice"`
	Craftable     bool   `json:"craftable"`
	Missing       string `json:"missing,omitempty"`
}

// ScanResult is the ranked output of one scan plus its metadata.
type ScanResult struct {
	Rows        []RankedRow `json:"results"`
	Recipes     int         `json:"recipes"`
	PricedItems int         `json:"pricedItems"`
	Source      string      `json:"source"` // "Market" or "Cache"
}

// ScanRequest is the HTTP-facing parameter set for one scan. Zero or absent
// tax rate and depth fall back to configured defaults.
type ScanRequest struct {
	Region       string   `json:"region"`
	Mastery      float64  `json:"mastery" binding:"gte=0"`
	MinStock     int64    `json:"minStock" binding:"gte=0"`
	TaxRate      *float64 `json:"taxRate,omitempty"`
	RequireStock bool     `json:"requireStock"`
	Recursive    bool     `json:"recursive"`
	MaxDepth     *int     `json:"maxDepth,omitempty"`
}
