package services

import (
	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/criteria"
	apperrors "github.com/ajharbinger/vetted-api/internal/errors"
	"github.com/ajharbinger/vetted-api/internal/models"
)

// CategoryView is one category of a user's resolved configuration
type CategoryView struct {
	Category   models.Category     `json:"category"`
	Items      []criteria.ItemView `json:"items"`
	EnabledIDs []string            `json:"enabledIds"`
	IsDefault  bool                `json:"isDefault"`
}

type criteriaServiceImpl struct {
	ws *workspaces
}

func newCriteriaService(ws *workspaces) CriteriaService {
	return &criteriaServiceImpl{ws: ws}
}

func (s *criteriaServiceImpl) Category(owner uuid.UUID, category models.Category) (*CategoryView, error) {
	var view *CategoryView
	err := s.ws.do(owner, "criteria.category", func(w *workspace) error {
		builtIn := w.catalog.Items(category)
		items, err := w.resolver.Describe(category, builtIn)
		if err != nil {
			return err
		}
		enabled, err := w.resolver.EnabledIDs(category, builtIn, models.IsDefaultCriterion)
		if err != nil {
			return err
		}
		doc, err := w.resolver.Load()
		if err != nil {
			return err
		}
		view = &CategoryView{
			Category:   category,
			Items:      items,
			EnabledIDs: enabled.Sorted(),
			IsDefault:  !doc.Enabled(category).IsOverride(),
		}
		return nil
	})
	return view, err
}

func (s *criteriaServiceImpl) ToggleItem(owner uuid.UUID, category models.Category, id string) ([]string, error) {
	var enabled []string
	err := s.ws.do(owner, "criteria.toggle", func(w *workspace) error {
		known, err := s.known(w, category, id)
		if err != nil {
			return err
		}
		if !known {
			return apperrors.NotFound("Criterion not found", nil)
		}
		set, err := w.resolver.ToggleEnabled(category, id, w.catalog.DefaultIDs(category))
		if err != nil {
			return err
		}
		enabled = set.Sorted()
		return nil
	})
	return enabled, err
}

// known reports whether id is a built-in or custom criterion of category
func (s *criteriaServiceImpl) known(w *workspace, category models.Category, id string) (bool, error) {
	if _, ok := w.catalog.Lookup(category, id); ok {
		return true, nil
	}
	custom, err := w.resolver.CustomItems(category)
	if err != nil {
		return false, err
	}
	for _, c := range custom {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *criteriaServiceImpl) SetWeight(owner uuid.UUID, category models.Category, id string, weight int) (int, error) {
	var stored int
	err := s.ws.do(owner, "criteria.weight", func(w *workspace) error {
		var err error
		stored, err = w.resolver.SetWeight(category, id, weight)
		return err
	})
	return stored, err
}

func (s *criteriaServiceImpl) AddCustomItem(owner uuid.UUID, category models.Category, item criteria.NewItem) (models.Criterion, error) {
	var created models.Criterion
	err := s.ws.do(owner, "criteria.add_custom", func(w *workspace) error {
		var err error
		created, err = w.resolver.AddCustomItem(category, item)
		return err
	})
	return created, err
}

func (s *criteriaServiceImpl) RemoveCustomItem(owner uuid.UUID, category models.Category, id string) error {
	return s.ws.do(owner, "criteria.remove_custom", func(w *workspace) error {
		removed, err := w.resolver.RemoveCustomItem(category, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.NotFound("Custom criterion not found", nil)
		}
		return nil
	})
}

func (s *criteriaServiceImpl) ResetCategory(owner uuid.UUID, category models.Category) error {
	return s.ws.do(owner, "criteria.reset_category", func(w *workspace) error {
		return w.resolver.ResetCategory(category)
	})
}

func (s *criteriaServiceImpl) ResetAll(owner uuid.UUID) error {
	return s.ws.do(owner, "criteria.reset_all", func(w *workspace) error {
		return w.resolver.ResetAll()
	})
}

func (s *criteriaServiceImpl) Export(owner uuid.UUID) (string, error) {
	var data string
	err := s.ws.do(owner, "criteria.export", func(w *workspace) error {
		var err error
		data, err = w.resolver.Export()
		return err
	})
	return data, err
}

func (s *criteriaServiceImpl) Import(owner uuid.UUID, data string) error {
	return s.ws.do(owner, "criteria.import", func(w *workspace) error {
		return w.resolver.Import(data)
	})
}
