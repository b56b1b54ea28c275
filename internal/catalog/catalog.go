// Package catalog holds the built-in reference lists of green flags, red flags,
// dealbreakers and investment stages.
package catalog

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ajharbinger/vetted-api/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

var files = map[models.Category]string{
	models.GreenFlags:   "data/green_flags.yaml",
	models.RedFlags:     "data/red_flags.yaml",
	models.Dealbreakers: "data/dealbreakers.yaml",
	models.Investment:   "data/investment_stages.yaml",
}

// Catalog is an immutable set of built-in criteria per category
type Catalog struct {
	items map[models.Category][]models.Criterion
}

// Load parses the embedded catalogs
func Load() (*Catalog, error) {
	c := &Catalog{items: make(map[models.Category][]models.Criterion)}
	for _, category := range models.AllCategories {
		data, err := dataFS.ReadFile(files[category])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", category, err)
		}
		var items []models.Criterion
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", category, err)
		}
		c.items[category] = items
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads an operator supplied catalog. The file is a YAML mapping from
// category name to a list of criteria; categories it leaves out keep the
// embedded lists.
func LoadFile(path string) (*Catalog, error) {
	c, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw map[string][]models.Criterion
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for name, items := range raw {
		category, err := models.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("catalog file %s: %w", path, err)
		}
		c.items[category] = items
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustLoad loads the embedded catalogs and panics on error
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load catalog: %v", err))
	}
	return c
}

func (c *Catalog) validate() error {
	validate := validator.New()
	for _, category := range models.AllCategories {
		seen := make(map[string]bool)
		for i, item := range c.items[category] {
			if err := validate.Struct(item); err != nil {
				return fmt.Errorf("%s catalog entry %d: %w", category, i, err)
			}
			if seen[item.ID] {
				return fmt.Errorf("%s catalog: duplicate id %q", category, item.ID)
			}
			seen[item.ID] = true
			if category == models.Investment && item.Stage < 1 {
				return fmt.Errorf("investment catalog entry %q: stage must be at least 1", item.ID)
			}
		}
	}

	stages := c.items[models.Investment]
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Stage < stages[j].Stage })
	return nil
}

// Items returns a copy of the built-in criteria for a category
func (c *Catalog) Items(category models.Category) []models.Criterion {
	items := c.items[category]
	out := make([]models.Criterion, len(items))
	copy(out, items)
	return out
}

// DefaultIDs returns the identifiers of the default-enabled criteria
func (c *Catalog) DefaultIDs(category models.Category) []string {
	var ids []string
	for _, item := range c.items[category] {
		if models.IsDefaultCriterion(item) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Lookup finds a built-in criterion by id
func (c *Catalog) Lookup(category models.Category, id string) (models.Criterion, bool) {
	for _, item := range c.items[category] {
		if item.ID == id {
			return item, true
		}
	}
	return models.Criterion{}, false
}
