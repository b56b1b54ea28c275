package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/models"
)

func ids(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return out
}

// uniform builds a snapshot with green/red/dealbreaker universes of the given
// sizes, every item at the default weight.
func uniform(green, red, dealbreakers int) criteria.Snapshot {
	return criteria.Snapshot{
		models.GreenFlags:   {Enabled: criteria.NewIDSet(ids("gf", green)...)},
		models.RedFlags:     {Enabled: criteria.NewIDSet(ids("rf", red)...)},
		models.Dealbreakers: {Enabled: criteria.NewIDSet(ids("db", dealbreakers)...)},
	}
}

func profile(green, red, dealbreakers int) *models.Profile {
	return &models.Profile{
		GreenFlags:   ids("gf", green),
		RedFlags:     ids("rf", red),
		Dealbreakers: ids("db", dealbreakers),
	}
}

func TestCalculate_ScenarioA_DefaultCatalog(t *testing.T) {
	cat := catalog.MustLoad()
	snap := criteria.DefaultSnapshot(cat)

	p := &models.Profile{GreenFlags: cat.DefaultIDs(models.GreenFlags)[:14]}

	result := NewEngine().Calculate(p, snap)

	assert.Equal(t, models.GradeAPlus, result.Grade)
	assert.InDelta(t, 82.35, result.Metrics.GreenPercent, 0.01)
	assert.Equal(t, 82, result.Details.GreenPercent)
	assert.Equal(t, 42, result.Details.GreenWeight)
	assert.Equal(t, 51, result.Details.GreenTotalWeight)
	assert.Equal(t, 14, result.Details.GreenCount)
	assert.Equal(t, 17, result.Details.GreenTotal)
	assert.Equal(t, 0, result.Details.RedPercent)
	assert.Equal(t, 17, result.Details.RedTotal)
	assert.Equal(t, 0, result.Details.DealbreakerCount)
}

func TestCalculate_ScenarioB_DealbreakersForceF(t *testing.T) {
	result := NewEngine().Calculate(profile(19, 0, 5), uniform(20, 20, 10))

	assert.Equal(t, 95, result.Details.GreenPercent)
	assert.Equal(t, models.GradeF, result.Grade)
}

func TestCalculate_ScenarioC_FallsToC(t *testing.T) {
	result := NewEngine().Calculate(profile(13, 7, 2), uniform(20, 20, 10))

	assert.Equal(t, 65, result.Details.GreenPercent)
	assert.Equal(t, 35, result.Details.RedPercent)
	assert.Equal(t, 2, result.Details.DealbreakerCount)
	assert.Equal(t, models.GradeC, result.Grade)
}

func TestCalculate_ScenarioD_RemovedCustomItem(t *testing.T) {
	snap := uniform(4, 4, 0)
	snap[models.GreenFlags].Enabled.Add("custom-greenFlags-x")

	p := profile(2, 0, 0)
	p.GreenFlags = append(p.GreenFlags, "custom-greenFlags-x")

	before := NewEngine().Calculate(p, snap)
	assert.Equal(t, 15, before.Details.GreenTotalWeight)
	assert.Equal(t, 9, before.Details.GreenWeight)

	snap[models.GreenFlags].Enabled.Remove("custom-greenFlags-x")
	after := NewEngine().Calculate(p, snap)

	assert.Equal(t, 12, after.Details.GreenTotalWeight)
	assert.Equal(t, 6, after.Details.GreenWeight)
	assert.Equal(t, 2, after.Details.GreenCount)
	assert.Equal(t, 50, after.Details.GreenPercent)
}

func TestCalculate_DecisionTable(t *testing.T) {
	tests := []struct {
		name                     string
		green, red, dealbreakers int
		want                     models.Grade
	}{
		{name: "perfect", green: 20, red: 0, dealbreakers: 0, want: models.GradeAPlus},
		{name: "80 green 15 red", green: 16, red: 3, dealbreakers: 0, want: models.GradeAPlus},
		{name: "80 green 20 red", green: 16, red: 4, dealbreakers: 0, want: models.GradeA},
		{name: "70 green", green: 14, red: 0, dealbreakers: 0, want: models.GradeA},
		{name: "one dealbreaker blocks A", green: 20, red: 0, dealbreakers: 1, want: models.GradeB},
		{name: "60 green 35 red", green: 12, red: 7, dealbreakers: 0, want: models.GradeB},
		{name: "60 green 40 red", green: 12, red: 8, dealbreakers: 0, want: models.GradeC},
		{name: "two dealbreakers", green: 20, red: 0, dealbreakers: 2, want: models.GradeC},
		{name: "three dealbreakers", green: 20, red: 0, dealbreakers: 3, want: models.GradeC},
		{name: "four dealbreakers", green: 20, red: 0, dealbreakers: 4, want: models.GradeD},
		{name: "five dealbreakers", green: 20, red: 0, dealbreakers: 5, want: models.GradeF},
		{name: "under half green", green: 9, red: 0, dealbreakers: 0, want: models.GradeD},
		{name: "exactly half green", green: 10, red: 0, dealbreakers: 0, want: models.GradeC},
		{name: "half red", green: 20, red: 10, dealbreakers: 0, want: models.GradeD},
		{name: "empty profile", green: 0, red: 0, dealbreakers: 0, want: models.GradeD},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Calculate(profile(tt.green, tt.red, tt.dealbreakers), uniform(20, 20, 10))
			assert.Equal(t, tt.want, result.Grade)
		})
	}
}

func TestCalculate_UsesUnroundedPercentages(t *testing.T) {
	weightsOfOne := func(n int) map[string]int {
		w := make(map[string]int, n)
		for _, id := range ids("gf", n) {
			w[id] = 1
		}
		return w
	}

	// 39 of 49 is 79.59%, displayed as 80 but still short of A+
	snap := criteria.Snapshot{
		models.GreenFlags: {Enabled: criteria.NewIDSet(ids("gf", 49)...), Weights: weightsOfOne(49)},
	}
	result := NewEngine().Calculate(profile(39, 0, 0), snap)
	assert.Equal(t, 80, result.Details.GreenPercent)
	assert.Equal(t, models.GradeA, result.Grade)

	// 99 of 200 is 49.5%, displayed as 50 but still a D
	snap = criteria.Snapshot{
		models.GreenFlags: {Enabled: criteria.NewIDSet(ids("gf", 200)...), Weights: weightsOfOne(200)},
	}
	result = NewEngine().Calculate(profile(99, 0, 0), snap)
	assert.Equal(t, 50, result.Details.GreenPercent)
	assert.Equal(t, models.GradeD, result.Grade)
}

func TestCalculate_EmptyCategoryHasZeroPercent(t *testing.T) {
	result := NewEngine().Calculate(profile(3, 3, 0), uniform(0, 0, 0))

	assert.Equal(t, 0, result.Details.GreenPercent)
	assert.Equal(t, 0, result.Details.RedPercent)
	assert.Equal(t, 0, result.Details.GreenTotalWeight)
	assert.Equal(t, 0, result.Details.GreenCount, "ids outside the enabled set are not counted")
	assert.Equal(t, models.GradeD, result.Grade)
}

func TestCalculate_MissingSnapshotCategories(t *testing.T) {
	result := NewEngine().Calculate(profile(5, 5, 5), criteria.Snapshot{})

	assert.Equal(t, 0.0, result.Metrics.GreenPercent)
	assert.Equal(t, models.GradeD, result.Grade)
}

func TestCalculate_ZeroGreenIsDUnlessF(t *testing.T) {
	engine := NewEngine()
	for dealbreakers := 0; dealbreakers <= 10; dealbreakers++ {
		for red := 0; red <= 20; red += 5 {
			result := engine.Calculate(profile(0, red, dealbreakers), uniform(20, 20, 10))
			if dealbreakers >= 5 {
				assert.Equal(t, models.GradeF, result.Grade)
			} else {
				assert.Equal(t, models.GradeD, result.Grade)
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	snap := uniform(20, 20, 10)
	p := profile(15, 4, 1)
	engine := NewEngine()

	first := engine.Calculate(p, snap)
	second := engine.Calculate(p, snap)

	assert.Equal(t, first, second)
}

func TestCalculate_Monotonic(t *testing.T) {
	snap := uniform(20, 20, 10)
	engine := NewEngine()

	prevPercent := -1
	prevCount := -1
	for n := 0; n <= 10; n++ {
		result := engine.Calculate(profile(n*2, 0, n), snap)
		assert.GreaterOrEqual(t, result.Details.GreenPercent, prevPercent)
		assert.GreaterOrEqual(t, result.Details.DealbreakerCount, prevCount)
		prevPercent = result.Details.GreenPercent
		prevCount = result.Details.DealbreakerCount
	}
}

func TestCalculate_WeightsAndDuplicates(t *testing.T) {
	snap := uniform(4, 0, 3)
	snap[models.GreenFlags] = criteria.ResolvedCategory{
		Enabled: snap[models.GreenFlags].Enabled,
		Weights: map[string]int{"gf-1": 5, "gf-2": 1},
	}
	snap[models.Dealbreakers] = criteria.ResolvedCategory{
		Enabled: snap[models.Dealbreakers].Enabled,
		Weights: map[string]int{"db-1": 5},
	}

	p := &models.Profile{
		GreenFlags:   []string{"gf-1", "gf-1", "stale"},
		Dealbreakers: []string{"db-1"},
	}
	result := NewEngine().Calculate(p, snap)

	// total weight 5 + 1 + 3 + 3
	assert.Equal(t, 12, result.Details.GreenTotalWeight)
	assert.Equal(t, 5, result.Details.GreenWeight)
	assert.Equal(t, 1, result.Details.GreenCount)
	assert.Equal(t, 42, result.Details.GreenPercent)

	assert.Equal(t, 1, result.Details.DealbreakerCount)
	assert.Equal(t, 5, result.Details.DealbreakerWeightedScore)
	assert.Equal(t, 3, result.Details.DealbreakerTotal)
}

func TestCalculate_WeightedScoreDoesNotDriveGrade(t *testing.T) {
	snap := uniform(10, 10, 10)
	heavy := map[string]int{}
	for _, id := range ids("db", 10) {
		heavy[id] = 5
	}
	snap[models.Dealbreakers] = criteria.ResolvedCategory{Enabled: snap[models.Dealbreakers].Enabled, Weights: heavy}

	result := NewEngine().Calculate(profile(10, 0, 1), snap)

	assert.Equal(t, 5, result.Details.DealbreakerWeightedScore)
	assert.Equal(t, models.GradeB, result.Grade)
}

func TestCalculate_InvestmentIsInformational(t *testing.T) {
	snap := uniform(10, 10, 10)
	p := profile(10, 0, 0)
	without := NewEngine().Calculate(p, snap)

	p.InvestmentStages = []string{"inv-1", "inv-2", "inv-3"}
	with := NewEngine().Calculate(p, snap)

	assert.Equal(t, without.Grade, with.Grade)
	assert.Equal(t, 3, with.Details.InvestmentCount)
}

func TestApplyStoresGrade(t *testing.T) {
	p := profile(20, 0, 0)
	result := NewEngine().Apply(p, uniform(20, 20, 10))

	require.Equal(t, models.GradeAPlus, result.Grade)
	assert.Equal(t, models.GradeAPlus, p.Grade)
	assert.Equal(t, result.Details, p.GradeDetails)
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "Exceptional - minimal concerns", Description(models.GradeAPlus))
	assert.Equal(t, "Not recommended - major dealbreakers", Description(models.GradeF))
	assert.Equal(t, Description(models.GradeC), Description(models.Grade("Z")))
}
