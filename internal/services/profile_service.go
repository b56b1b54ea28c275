package services

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/ajharbinger/vetted-api/internal/errors"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/scoring"
)

// GradeView is a profile's grade computed against the current criteria,
// next to the grade cached on the profile.
type GradeView struct {
	ProfileID   string         `json:"profileId"`
	CachedGrade models.Grade   `json:"cachedGrade"`
	Description string         `json:"description"`
	Stale       bool           `json:"stale"`
	Result      scoring.Result `json:"result"`
}

type profileServiceImpl struct {
	ws *workspaces
}

func newProfileService(ws *workspaces) ProfileService {
	return &profileServiceImpl{ws: ws}
}

// profileOp runs a store operation that yields a single profile
func (s *profileServiceImpl) profileOp(owner uuid.UUID, op string, fn func(w *workspace) (*models.Profile, error)) (*models.Profile, error) {
	var p *models.Profile
	err := s.ws.do(owner, op, func(w *workspace) error {
		var err error
		p, err = fn(w)
		return err
	})
	return p, err
}

func (s *profileServiceImpl) List(owner uuid.UUID, includeArchived bool) ([]models.Profile, error) {
	var list []models.Profile
	err := s.ws.do(owner, "profiles.list", func(w *workspace) error {
		var err error
		list, err = w.profiles.List(includeArchived)
		return err
	})
	return list, err
}

func (s *profileServiceImpl) Archived(owner uuid.UUID) ([]models.Profile, error) {
	var list []models.Profile
	err := s.ws.do(owner, "profiles.archived", func(w *workspace) error {
		var err error
		list, err = w.profiles.Archived()
		return err
	})
	return list, err
}

func (s *profileServiceImpl) Get(owner uuid.UUID, id string) (*models.Profile, error) {
	return s.profileOp(owner, "profiles.get", func(w *workspace) (*models.Profile, error) {
		return w.profiles.Get(id)
	})
}

func (s *profileServiceImpl) Create(owner uuid.UUID, name string) (*models.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationError("Name is required", nil)
	}
	return s.profileOp(owner, "profiles.create", func(w *workspace) (*models.Profile, error) {
		return w.profiles.Create(name)
	})
}

func (s *profileServiceImpl) Rename(owner uuid.UUID, id, name string) (*models.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationError("Name is required", nil)
	}
	return s.profileOp(owner, "profiles.rename", func(w *workspace) (*models.Profile, error) {
		return w.profiles.Rename(id, name)
	})
}

func (s *profileServiceImpl) UpdateNotes(owner uuid.UUID, id, notes string) (*models.Profile, error) {
	return s.profileOp(owner, "profiles.notes", func(w *workspace) (*models.Profile, error) {
		return w.profiles.UpdateNotes(id, notes)
	})
}

func (s *profileServiceImpl) ToggleFlag(owner uuid.UUID, id string, category models.Category, flagID string, checked bool) (*models.Profile, error) {
	if category == models.Investment {
		return nil, apperrors.InvalidInput("Use the investment endpoint for investment stages", nil)
	}
	return s.profileOp(owner, "profiles.toggle_flag", func(w *workspace) (*models.Profile, error) {
		return w.profiles.ToggleFlag(id, category, flagID, checked)
	})
}

func (s *profileServiceImpl) ToggleInvestmentStage(owner uuid.UUID, id, stageID string, checked bool) (*models.Profile, error) {
	return s.profileOp(owner, "profiles.toggle_investment", func(w *workspace) (*models.Profile, error) {
		return w.profiles.ToggleInvestmentStage(id, stageID, checked)
	})
}

func (s *profileServiceImpl) Grade(owner uuid.UUID, id string) (*GradeView, error) {
	var view *GradeView
	err := s.ws.do(owner, "profiles.grade", func(w *workspace) error {
		p, err := w.profiles.Get(id)
		if err != nil {
			return err
		}
		snap, err := w.snapshot()
		if err != nil {
			return err
		}
		result := w.engine.Calculate(p, snap)
		view = &GradeView{
			ProfileID:   p.ID,
			CachedGrade: p.Grade,
			Description: scoring.Description(result.Grade),
			Stale:       p.Grade != result.Grade,
			Result:      result,
		}
		return nil
	})
	return view, err
}

func (s *profileServiceImpl) Archive(owner uuid.UUID, id string) (*models.Profile, error) {
	return s.profileOp(owner, "profiles.archive", func(w *workspace) (*models.Profile, error) {
		return w.profiles.Archive(id)
	})
}

func (s *profileServiceImpl) Restore(owner uuid.UUID, id string) (*models.Profile, error) {
	return s.profileOp(owner, "profiles.restore", func(w *workspace) (*models.Profile, error) {
		return w.profiles.Restore(id)
	})
}

func (s *profileServiceImpl) Delete(owner uuid.UUID, id string) error {
	return s.ws.do(owner, "profiles.delete", func(w *workspace) error {
		return w.profiles.Delete(id)
	})
}

func (s *profileServiceImpl) Regrade(owner uuid.UUID) (int, error) {
	var changed int
	err := s.ws.do(owner, "profiles.regrade", func(w *workspace) error {
		var err error
		changed, err = w.profiles.Regrade()
		return err
	})
	return changed, err
}

func (s *profileServiceImpl) Export(owner uuid.UUID) (string, error) {
	var data string
	err := s.ws.do(owner, "profiles.export", func(w *workspace) error {
		var err error
		data, err = w.profiles.Export()
		return err
	})
	return data, err
}

func (s *profileServiceImpl) Import(owner uuid.UUID, data string) error {
	return s.ws.do(owner, "profiles.import", func(w *workspace) error {
		return w.profiles.Import(data)
	})
}

func (s *profileServiceImpl) Clear(owner uuid.UUID) error {
	return s.ws.do(owner, "profiles.clear", func(w *workspace) error {
		return w.profiles.Clear()
	})
}

func (s *profileServiceImpl) SeedExamples(owner uuid.UUID) (bool, error) {
	var seeded bool
	err := s.ws.do(owner, "profiles.seed", func(w *workspace) error {
		var err error
		seeded, err = w.profiles.SeedExamples()
		return err
	})
	return seeded, err
}
