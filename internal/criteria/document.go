package criteria

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ajharbinger/vetted-api/internal/models"
)

const (
	// StorageKey is the document key of a user's criteria configuration
	StorageKey = "vetted_criteria"

	// DocumentVersion is the current configuration schema version
	DocumentVersion = 1

	MinWeight     = 1
	MaxWeight     = 5
	DefaultWeight = 3
)

// EnabledSet is either Defaults (use the catalog's built-in defaults) or an
// explicit Override list of enabled identifiers. It encodes as JSON null or an
// array respectively.
type EnabledSet struct {
	ids      []string
	override bool
}

// Defaults is the unset enabled set
func Defaults() EnabledSet {
	return EnabledSet{}
}

// Override returns an explicit enabled set holding a copy of ids
func Override(ids []string) EnabledSet {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return EnabledSet{ids: cp, override: true}
}

// IsOverride reports whether an explicit list is stored
func (e EnabledSet) IsOverride() bool {
	return e.override
}

// IDs returns a copy of the override list, or nil for Defaults
func (e EnabledSet) IDs() []string {
	if !e.override {
		return nil
	}
	cp := make([]string, len(e.ids))
	copy(cp, e.ids)
	return cp
}

// Contains reports whether id is in the override list
func (e EnabledSet) Contains(id string) bool {
	for _, v := range e.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (e EnabledSet) without(id string) EnabledSet {
	out := make([]string, 0, len(e.ids))
	for _, v := range e.ids {
		if v != id {
			out = append(out, v)
		}
	}
	return EnabledSet{ids: out, override: true}
}

func (e EnabledSet) with(id string) EnabledSet {
	out := make([]string, len(e.ids), len(e.ids)+1)
	copy(out, e.ids)
	return EnabledSet{ids: append(out, id), override: true}
}

// MarshalJSON encodes Defaults as null
func (e EnabledSet) MarshalJSON() ([]byte, error) {
	if !e.override {
		return []byte("null"), nil
	}
	if e.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.ids)
}

// UnmarshalJSON decodes null as Defaults and an array as Override
func (e *EnabledSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = Defaults()
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*e = EnabledSet{ids: ids, override: true}
	return nil
}

// Document is the persisted criteria configuration of one user
type Document struct {
	Version int `json:"version"`

	EnabledGreenFlags   EnabledSet `json:"enabledGreenFlags"`
	EnabledRedFlags     EnabledSet `json:"enabledRedFlags"`
	EnabledDealbreakers EnabledSet `json:"enabledDealbreakers"`
	EnabledInvestment   EnabledSet `json:"enabledInvestment"`

	CustomGreenFlags   []models.Criterion `json:"customGreenFlags"`
	CustomRedFlags     []models.Criterion `json:"customRedFlags"`
	CustomDealbreakers []models.Criterion `json:"customDealbreakers"`
	CustomInvestment   []models.Criterion `json:"customInvestment"`

	WeightsGreenFlags   map[string]int `json:"weightsGreenFlags"`
	WeightsRedFlags     map[string]int `json:"weightsRedFlags"`
	WeightsDealbreakers map[string]int `json:"weightsDealbreakers"`
	WeightsInvestment   map[string]int `json:"weightsInvestment"`
}

// NewDocument returns the default configuration: every category on Defaults,
// no custom items and no weights.
func NewDocument() *Document {
	d := &Document{Version: DocumentVersion}
	d.normalize()
	return d
}

// normalize replaces nil collections so the encoded form matches a fresh document
func (d *Document) normalize() {
	for _, c := range models.AllCategories {
		s := d.section(c)
		if *s.custom == nil {
			*s.custom = []models.Criterion{}
		}
		if *s.weights == nil {
			*s.weights = map[string]int{}
		}
	}
}

// section groups the three fields that belong to one category
type section struct {
	enabled *EnabledSet
	custom  *[]models.Criterion
	weights *map[string]int
}

func (d *Document) section(c models.Category) section {
	switch c {
	case models.GreenFlags:
		return section{&d.EnabledGreenFlags, &d.CustomGreenFlags, &d.WeightsGreenFlags}
	case models.RedFlags:
		return section{&d.EnabledRedFlags, &d.CustomRedFlags, &d.WeightsRedFlags}
	case models.Dealbreakers:
		return section{&d.EnabledDealbreakers, &d.CustomDealbreakers, &d.WeightsDealbreakers}
	case models.Investment:
		return section{&d.EnabledInvestment, &d.CustomInvestment, &d.WeightsInvestment}
	}
	panic(fmt.Sprintf("criteria: no section for %s", c))
}

// Enabled returns the stored enabled set of a category
func (d *Document) Enabled(c models.Category) EnabledSet {
	return *d.section(c).enabled
}

// Custom returns a copy of the custom items of a category
func (d *Document) Custom(c models.Category) []models.Criterion {
	items := *d.section(c).custom
	out := make([]models.Criterion, len(items))
	copy(out, items)
	return out
}

// Weights returns a copy of the stored weights of a category
func (d *Document) Weights(c models.Category) map[string]int {
	stored := *d.section(c).weights
	out := make(map[string]int, len(stored))
	for id, w := range stored {
		out[id] = w
	}
	return out
}

// resetSection returns one category to Defaults with no custom items or weights
func (d *Document) resetSection(c models.Category) {
	s := d.section(c)
	*s.enabled = Defaults()
	*s.custom = []models.Criterion{}
	*s.weights = map[string]int{}
}

// ClampWeight forces w into [MinWeight, MaxWeight]
func ClampWeight(w int) int {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
