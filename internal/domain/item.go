package domain

// Recipe categories. The category comes from the source file name and
// selects the yield model; Processing uses a flat multiplier, everything
// else scales with mastery.
const (
	CategoryCooking    = "Cooking"
	CategoryAlchemy    = "Alchemy"
	CategoryProcessing = "Processing"
)

// Item is a single game item referenced by the catalog or the market.
// IDs are canonical integers shared between the recipe files and the
// market API, even though the raw files sometimes encode them as strings.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IngredientSlot is one ingredient requirement of a recipe. Any one of the
// Options satisfies the slot; Quantity is how many units the slot consumes.
type IngredientSlot struct {
	Options  []Item `json:"options"`
	Quantity int64  `json:"quantity"`
}

// Recipe produces one Item from zero or more ingredient slots. A recipe
// with no slots is trivially craftable at zero cost. Product ids may repeat
// across categories; the catalog keeps every record rather than deduplicating.
type Recipe struct {
	Product  Item             `json:"product"`
	Slots    []IngredientSlot `json:"slots"`
	Category string           `json:"category"`
}

// CategoryStatus is the load report for one recipe file.
type CategoryStatus struct {
	File     string `json:"file"`
	Category string `json:"category"`
	Loaded   int    `json:"loaded"`
	Skipped  int    `json:"skipped"`
	Err      string `json:"error,omitempty"`
}
