package criteria

import (
	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/models"
)

// ResolvedCategory is the effective configuration of one category
type ResolvedCategory struct {
	Enabled IDSet
	Weights map[string]int
}

// Weight returns the effective weight of id
func (rc ResolvedCategory) Weight(id string) int {
	return weightOf(rc.Weights, id)
}

// Snapshot is the resolved configuration of every category at one point in time
type Snapshot map[models.Category]ResolvedCategory

// NewSnapshot resolves doc against the built-in catalog
func NewSnapshot(doc *Document, cat *catalog.Catalog) Snapshot {
	snap := make(Snapshot, len(models.AllCategories))
	for _, c := range models.AllCategories {
		snap[c] = ResolvedCategory{
			Enabled: enabledIDs(doc, c, cat.Items(c), models.IsDefaultCriterion),
			Weights: doc.Weights(c),
		}
	}
	return snap
}

// DefaultSnapshot resolves the default configuration against cat
func DefaultSnapshot(cat *catalog.Catalog) Snapshot {
	return NewSnapshot(NewDocument(), cat)
}
