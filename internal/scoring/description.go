package scoring

import "github.com/ajharbinger/vetted-api/internal/models"

var descriptions = map[models.Grade]string{
	models.GradeAPlus: "Exceptional - minimal concerns",
	models.GradeA:     "Strong candidate - very few concerns",
	models.GradeB:     "Good potential - some areas to monitor",
	models.GradeC:     "Notable concerns - proceed carefully",
	models.GradeD:     "High risk - significant red flags",
	models.GradeF:     "Not recommended - major dealbreakers",
}

// Description returns the summary line shown next to a grade.
// Unknown grades get the C description.
func Description(grade models.Grade) string {
	if d, ok := descriptions[grade]; ok {
		return d
	}
	return descriptions[models.GradeC]
}
