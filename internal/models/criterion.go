package models

import "errors"

var (
	// ErrUnknownCategory is returned when a category name cannot be parsed
	ErrUnknownCategory = errors.New("unknown category")

	// ErrProfileNotFound is returned by operations addressing a missing profile id
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidImport is returned when an imported document is rejected
	ErrInvalidImport = errors.New("invalid import")

	// ErrInvalidItem is returned when a custom criterion is missing required fields
	ErrInvalidItem = errors.New("invalid criterion")
)

// DefaultCustomIcon is the icon given to user-created criteria that did not pick one
const DefaultCustomIcon = "edit"

// Criterion is a single checkable item: a green flag, red flag, dealbreaker or
// investment stage. Investment stages additionally carry Stage and Description.
type Criterion struct {
	ID          string `json:"id" yaml:"id" validate:"required,max=64"`
	Label       string `json:"label" yaml:"label" validate:"required"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	IsDefault   bool   `json:"isDefault,omitempty" yaml:"isDefault"`
	IsCustom    bool   `json:"isCustom,omitempty" yaml:"-"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation"`
	Description string `json:"description,omitempty" yaml:"description"`
	Stage       int    `json:"stage,omitempty" yaml:"stage" validate:"gte=0"`
}

// IsDefaultCriterion is the predicate selecting built-in defaults from a catalog
func IsDefaultCriterion(c Criterion) bool {
	return c.IsDefault
}
