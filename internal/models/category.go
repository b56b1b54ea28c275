package models

import (
	"encoding/json"
	"fmt"
)

// Category identifies one of the four criteria catalogs a profile is evaluated against
type Category int

const (
	GreenFlags Category = iota
	RedFlags
	Dealbreakers
	Investment
)

// AllCategories lists every category in display order
var AllCategories = []Category{GreenFlags, RedFlags, Dealbreakers, Investment}

// ScoredCategories are the categories that feed the grade
var ScoredCategories = []Category{GreenFlags, RedFlags, Dealbreakers}

// String returns the wire name of the category
func (c Category) String() string {
	switch c {
	case GreenFlags:
		return "greenFlags"
	case RedFlags:
		return "redFlags"
	case Dealbreakers:
		return "dealbreakers"
	case Investment:
		return "investment"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c >= GreenFlags && c <= Investment
}

// ParseCategory converts a wire name into a Category.
// The hyphenated forms used in URLs are accepted as well.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "greenFlags", "green-flags", "green":
		return GreenFlags, nil
	case "redFlags", "red-flags", "red":
		return RedFlags, nil
	case "dealbreakers":
		return Dealbreakers, nil
	case "investment", "investmentStages", "investment-stages":
		return Investment, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalJSON encodes the category by name
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category name
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
