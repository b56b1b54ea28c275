package models

import "time"

// Grade is a letter grade summarizing relationship health
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Profile is a person being evaluated
type Profile struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	IsArchived       bool         `json:"isArchived"`
	Notes            string       `json:"notes"`
	GreenFlags       []string     `json:"greenFlags"`
	RedFlags         []string     `json:"redFlags"`
	Dealbreakers     []string     `json:"dealbreakers"`
	InvestmentStages []string     `json:"investmentStages"`
	Grade            Grade        `json:"grade"`
	GradeDetails     GradeDetails `json:"gradeDetails"`
}

// GradeDetails is the breakdown cached alongside a profile's grade.
// Percentages are rounded for display only.
type GradeDetails struct {
	GreenPercent             int `json:"greenPercent"`
	RedPercent               int `json:"redPercent"`
	DealbreakerCount         int `json:"dealbreakerCount"`
	DealbreakerWeightedScore int `json:"dealbreakerWeightedScore"`
	GreenCount               int `json:"greenCount"`
	RedCount                 int `json:"redCount"`
	GreenTotal               int `json:"greenTotal"`
	RedTotal                 int `json:"redTotal"`
	DealbreakerTotal         int `json:"dealbreakerTotal"`
	GreenWeight              int `json:"greenWeight"`
	GreenTotalWeight         int `json:"greenTotalWeight"`
	RedWeight                int `json:"redWeight"`
	RedTotalWeight           int `json:"redTotalWeight"`
	InvestmentCount          int `json:"investmentCount"`
}

// Checked returns the profile's checked identifiers for a category
func (p *Profile) Checked(c Category) []string {
	if p == nil {
		return nil
	}
	switch c {
	case GreenFlags:
		return p.GreenFlags
	case RedFlags:
		return p.RedFlags
	case Dealbreakers:
		return p.Dealbreakers
	case Investment:
		return p.InvestmentStages
	}
	return nil
}

// CheckedRef returns a pointer to the slice backing a category, for in-place edits
func (p *Profile) CheckedRef(c Category) *[]string {
	switch c {
	case GreenFlags:
		return &p.GreenFlags
	case RedFlags:
		return &p.RedFlags
	case Dealbreakers:
		return &p.Dealbreakers
	case Investment:
		return &p.InvestmentStages
	}
	return nil
}
