package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/monsirenc/BDO-Market-Scanner/config"
	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// Repository loads the per-category recipe files and serves the normalized
// recipe set. The catalog is read once and memoized; Reload forces a fresh
// read from disk.
type Repository struct {
	dir   string
	files []string

	mu      sync.RWMutex
	loaded  bool
	recipes []domain.Recipe
	status  []domain.CategoryStatus
}

// NewRepository creates a catalog repository for the configured directory
func NewRepository(cfg config.CatalogConfig) *Repository {
	return &Repository{
		dir:   cfg.Dir,
		files: cfg.Files,
	}
}

// Recipes returns the normalized catalog, loading it on first use
func (r *Repository) Recipes() ([]domain.Recipe, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.recipes, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.load()
	}
	return r.recipes, nil
}

// Status returns the per-file load report from the most recent load
func (r *Repository) Status() []domain.CategoryStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Reload discards the memoized catalog and reads the files again
func (r *Repository) Reload() ([]domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()
	return r.recipes, nil
}

// load must be called with the write lock held.
func (r *Repository) load() {
	recipes := make([]domain.Recipe, 0, 256)
	status := make([]domain.CategoryStatus, 0, len(r.files))

	for _, file := range r.files {
		loaded, st := loadFile(filepath.Join(r.dir, file), file)
		recipes = append(recipes, loaded...)
		status = append(status, st)
		if st.Err != "" {
			log.Warnf("catalog: %s: %s", file, st.Err)
		} else {
			log.Infof("catalog: %s: loaded %d recipes (%d skipped)", file, st.Loaded, st.Skipped)
		}
	}

	r.recipes = recipes
	r.status = status
	r.loaded = true
}

// rawID tolerates ids encoded as JSON numbers or strings. A value that
// cannot be coerced leaves ok false instead of failing the whole file.
type rawID struct {
	value int
	ok    bool
}

func (r *rawID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	r.value = n
	r.ok = true
	return nil
}

// Raw record shapes as they appear in the recipe files.
type rawFile struct {
	Recipes []rawRecipe `json:"recipes"`
}

type rawRecipe struct {
	Product     rawItem   `json:"product"`
	Ingredients []rawSlot `json:"ingredients"`
}

type rawItem struct {
	ID   rawID  `json:"id"`
	Name string `json:"name"`
}

type rawSlot struct {
	Item   []rawItem `json:"item"`
	Amount int64     `json:"amount"`
}

// loadFile parses one category file. Records with any non-coercible id are
// skipped and counted; a missing or unparsable file reports an error in the
// status entry without failing the batch.
func loadFile(path, name string) ([]domain.Recipe, domain.CategoryStatus) {
	st := domain.CategoryStatus{File: name, Category: categoryFromFile(name)}

	data, err := os.ReadFile(path)
	if err != nil {
		st.Err = err.Error()
		return nil, st
	}

	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		st.Err = fmt.Sprintf("parse: %v", err)
		return nil, st
	}

	recipes := make([]domain.Recipe, 0, len(raw.Recipes))
	for _, rr := range raw.Recipes {
		recipe, ok := normalize(rr, st.Category)
		if !ok {
			st.Skipped++
			continue
		}
		recipes = append(recipes, recipe)
	}
	st.Loaded = len(recipes)
	return recipes, st
}

// normalize coerces one raw record into a domain.Recipe. The whole record
// is rejected when the product id or any ingredient-option id fails to
// coerce, so every recipe that reaches the engine is integer-keyed
// throughout and snapshot lookups never need type coercion.
func normalize(rr rawRecipe, category string) (domain.Recipe, bool) {
	if !rr.Product.ID.ok {
		return domain.Recipe{}, false
	}

	slots := make([]domain.IngredientSlot, 0, len(rr.Ingredients))
	for _, rs := range rr.Ingredients {
		options := make([]domain.Item, 0, len(rs.Item))
		for _, ri := range rs.Item {
			if !ri.ID.ok {
				return domain.Recipe{}, false
			}
			options = append(options, domain.Item{ID: ri.ID.value, Name: ri.Name})
		}
		slots = append(slots, domain.IngredientSlot{Options: options, Quantity: rs.Amount})
	}

	return domain.Recipe{
		Product:  domain.Item{ID: rr.Product.ID.value, Name: rr.Product.Name},
		Slots:    slots,
		Category: category,
	}, true
}

// categoryFromFile maps "recipesCooking.json" to "Cooking". Files outside
// the naming scheme keep their base name as the category tag.
func categoryFromFile(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".json")
	if cat, found := strings.CutPrefix(base, "recipes"); found && cat != "" {
		return cat
	}
	return base
}
