package scoring

import (
	"math"

	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/models"
)

// Metrics are the unrounded inputs of the grade decision table
type Metrics struct {
	GreenPercent     float64 `json:"greenPercent"`
	RedPercent       float64 `json:"redPercent"`
	DealbreakerCount int     `json:"dealbreakerCount"`
}

// GradeRule is one row of the decision table
type GradeRule struct {
	Grade       models.Grade
	Description string
	Matches     func(m Metrics) bool
}

// DefaultRules is the grade decision table. Rows are evaluated in order and
// the first match wins; bands overlap, so order matters.
var DefaultRules = []GradeRule{
	{
		Grade:       models.GradeF,
		Description: "5 or more dealbreakers",
		Matches:     func(m Metrics) bool { return m.DealbreakerCount >= 5 },
	},
	{
		Grade:       models.GradeD,
		Description: "under 50% green, 50% or more red, or 4 or more dealbreakers",
		Matches: func(m Metrics) bool {
			return m.GreenPercent < 50 || m.RedPercent >= 50 || m.DealbreakerCount >= 4
		},
	},
	{
		Grade:       models.GradeAPlus,
		Description: "80% green, under 20% red, no dealbreakers",
		Matches: func(m Metrics) bool {
			return m.GreenPercent >= 80 && m.RedPercent < 20 && m.DealbreakerCount == 0
		},
	},
	{
		Grade:       models.GradeA,
		Description: "70% green, under 30% red, no dealbreakers",
		Matches: func(m Metrics) bool {
			return m.GreenPercent >= 70 && m.RedPercent < 30 && m.DealbreakerCount == 0
		},
	},
	{
		Grade:       models.GradeB,
		Description: "60% green, under 40% red, at most 1 dealbreaker",
		Matches: func(m Metrics) bool {
			return m.GreenPercent >= 60 && m.RedPercent < 40 && m.DealbreakerCount <= 1
		},
	},
	{
		Grade:       models.GradeC,
		Description: "50% green, under 50% red, at most 3 dealbreakers",
		Matches: func(m Metrics) bool {
			return m.GreenPercent >= 50 && m.RedPercent < 50 && m.DealbreakerCount <= 3
		},
	},
}

// FallbackGrade is returned when no rule matches
const FallbackGrade = models.GradeC

// Result is a computed grade with its breakdown
type Result struct {
	Grade   models.Grade        `json:"grade"`
	Details models.GradeDetails `json:"details"`
	Metrics Metrics             `json:"metrics"`
	Rule    string              `json:"rule"`
}

// Engine grades profiles against a resolved criteria snapshot
type Engine struct {
	rules []GradeRule
}

// NewEngine creates an engine using DefaultRules
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules}
}

// categoryScore is the weighted tally of one category
type categoryScore struct {
	matched       int
	total         int
	matchedWeight int
	totalWeight   int
}

func (s categoryScore) percent() float64 {
	if s.totalWeight <= 0 {
		return 0
	}
	return float64(s.matchedWeight) / float64(s.totalWeight) * 100
}

// scoreCategory counts checked ids that are still enabled. Ids that were
// disabled or deleted since they were checked count for neither side.
func scoreCategory(checked []string, rc criteria.ResolvedCategory) categoryScore {
	var s categoryScore
	for id := range rc.Enabled {
		s.total++
		s.totalWeight += rc.Weight(id)
	}
	for id := range criteria.NewIDSet(checked...) {
		if rc.Enabled.Has(id) {
			s.matched++
			s.matchedWeight += rc.Weight(id)
		}
	}
	return s
}

// Calculate grades a profile. It has no side effects and never fails.
func (e *Engine) Calculate(p *models.Profile, snap criteria.Snapshot) Result {
	green := scoreCategory(p.Checked(models.GreenFlags), snap[models.GreenFlags])
	red := scoreCategory(p.Checked(models.RedFlags), snap[models.RedFlags])
	dealbreakers := scoreCategory(p.Checked(models.Dealbreakers), snap[models.Dealbreakers])

	metrics := Metrics{
		GreenPercent:     green.percent(),
		RedPercent:       red.percent(),
		DealbreakerCount: dealbreakers.matched,
	}

	result := Result{
		Grade:   FallbackGrade,
		Metrics: metrics,
		Rule:    "fallback",
		Details: models.GradeDetails{
			GreenPercent:             int(math.Round(metrics.GreenPercent)),
			RedPercent:               int(math.Round(metrics.RedPercent)),
			DealbreakerCount:         dealbreakers.matched,
			DealbreakerWeightedScore: dealbreakers.matchedWeight,
			GreenCount:               green.matched,
			RedCount:                 red.matched,
			GreenTotal:               green.total,
			RedTotal:                 red.total,
			DealbreakerTotal:         dealbreakers.total,
			GreenWeight:              green.matchedWeight,
			GreenTotalWeight:         green.totalWeight,
			RedWeight:                red.matchedWeight,
			RedTotalWeight:           red.totalWeight,
			InvestmentCount:          len(p.Checked(models.Investment)),
		},
	}

	for _, rule := range e.rules {
		if rule.Matches(metrics) {
			result.Grade = rule.Grade
			result.Rule = rule.Description
			break
		}
	}

	return result
}

// Apply recomputes and stores the grade on p
func (e *Engine) Apply(p *models.Profile, snap criteria.Snapshot) Result {
	result := e.Calculate(p, snap)
	p.Grade = result.Grade
	p.GradeDetails = result.Details
	return result
}
