package profiles

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajharbinger/vetted-api/internal/models"
)

//go:embed data/examples.yaml
var examplesYAML []byte

type example struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	CreatedDaysAgo   int      `yaml:"createdDaysAgo"`
	UpdatedDaysAgo   int      `yaml:"updatedDaysAgo"`
	Notes            string   `yaml:"notes"`
	GreenFlags       []string `yaml:"greenFlags"`
	RedFlags         []string `yaml:"redFlags"`
	Dealbreakers     []string `yaml:"dealbreakers"`
	InvestmentStages []string `yaml:"investmentStages"`
}

func loadExamples() ([]example, error) {
	var examples []example
	if err := yaml.Unmarshal(examplesYAML, &examples); err != nil {
		return nil, fmt.Errorf("failed to parse example profiles: %w", err)
	}
	return examples, nil
}

// SeedExamples adds the demo profiles when the store is empty. It reports
// whether anything was added.
func (s *Store) SeedExamples() (bool, error) {
	doc, err := s.Load()
	if err != nil {
		return false, err
	}
	if len(doc.Profiles) > 0 {
		return false, nil
	}

	examples, err := loadExamples()
	if err != nil {
		return false, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return false, err
	}

	now := s.now()
	day := 24 * time.Hour
	for _, ex := range examples {
		p := &models.Profile{
			ID:               ex.ID,
			Name:             ex.Name,
			CreatedAt:        now.Add(-time.Duration(ex.CreatedDaysAgo) * day),
			UpdatedAt:        now.Add(-time.Duration(ex.UpdatedDaysAgo) * day),
			Notes:            ex.Notes,
			GreenFlags:       ex.GreenFlags,
			RedFlags:         ex.RedFlags,
			Dealbreakers:     ex.Dealbreakers,
			InvestmentStages: ex.InvestmentStages,
		}
		normalize(p)
		s.engine.Apply(p, snap)
		doc.Profiles[p.ID] = p
	}

	if err := s.save(doc); err != nil {
		return false, err
	}
	s.log.Info("seeded example profiles", "count", len(examples))
	return true, nil
}
