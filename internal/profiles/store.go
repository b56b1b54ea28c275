// Package profiles persists a user's evaluated profiles and keeps their cached
// grades current.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/internal/scoring"
)

const (
	// StorageKey is the document key of a user's profiles
	StorageKey = "vetted_profiles"

	// SchemaVersion is the current profile document version
	SchemaVersion = 1
)

// Document is the persisted profile collection
type Document struct {
	Version  int                        `json:"version"`
	Profiles map[string]*models.Profile `json:"profiles"`
}

func newDocument() *Document {
	return &Document{Version: SchemaVersion, Profiles: map[string]*models.Profile{}}
}

// SnapshotFunc returns the criteria configuration grades are computed against
type SnapshotFunc func() (criteria.Snapshot, error)

// Store reads and mutates one user's profile document
type Store struct {
	docs     repository.DocumentStore
	snapshot SnapshotFunc
	engine   *scoring.Engine
	log      logger.Logger
	now      func() time.Time
}

// NewStore creates a profile store
func NewStore(docs repository.DocumentStore, snapshot SnapshotFunc, engine *scoring.Engine, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	if engine == nil {
		engine = scoring.NewEngine()
	}
	return &Store{
		docs:     docs,
		snapshot: snapshot,
		engine:   engine,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the stored document. Missing or unreadable documents yield an
// empty one; documents of another version keep only their profiles.
func (s *Store) Load() (*Document, error) {
	raw, err := s.docs.Get(StorageKey)
	if errors.Is(err, repository.ErrNotFound) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		s.log.Warn("profile document unreadable, starting empty", "error", err.Error())
		return newDocument(), nil
	}
	if doc.Version != SchemaVersion {
		s.log.Info("migrating profile document", "from_version", doc.Version, "to_version", SchemaVersion)
		doc = &Document{Version: SchemaVersion, Profiles: doc.Profiles}
	}
	if doc.Profiles == nil {
		doc.Profiles = map[string]*models.Profile{}
	}
	for id, p := range doc.Profiles {
		if p == nil {
			delete(doc.Profiles, id)
			continue
		}
		normalize(p)
	}
	return doc, nil
}

// normalize replaces nil sets so they encode as empty arrays
func normalize(p *models.Profile) {
	for _, c := range models.AllCategories {
		ref := p.CheckedRef(c)
		if *ref == nil {
			*ref = []string{}
		}
	}
}

func (s *Store) save(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := s.docs.Put(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	return nil
}

func sortProfiles(list []models.Profile) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

func (s *Store) filter(keep func(p *models.Profile) bool) ([]models.Profile, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Profile, 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sortProfiles(out)
	return out, nil
}

// List returns profiles, most recently updated first. Archived profiles are
// included only when includeArchived is set.
func (s *Store) List(includeArchived bool) ([]models.Profile, error) {
	return s.filter(func(p *models.Profile) bool { return includeArchived || !p.IsArchived })
}

// Archived returns only archived profiles
func (s *Store) Archived() ([]models.Profile, error) {
	return s.filter(func(p *models.Profile) bool { return p.IsArchived })
}

// Get returns a single profile
func (s *Store) Get(id string) (*models.Profile, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	p, ok := doc.Profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProfileNotFound, id)
	}
	return p, nil
}

// Create adds a new profile with no checked criteria and grade C
func (s *Store) Create(name string) (*models.Profile, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Profile{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(name),
		CreatedAt:        now,
		UpdatedAt:        now,
		GreenFlags:       []string{},
		RedFlags:         []string{},
		Dealbreakers:     []string{},
		InvestmentStages: []string{},
		Grade:            models.GradeC,
	}
	doc.Profiles[p.ID] = p

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return p, nil
}

// update loads the document, applies fn to one profile, stamps UpdatedAt and saves
func (s *Store) update(id string, fn func(p *models.Profile) error) (*models.Profile, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	p, ok := doc.Profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProfileNotFound, id)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename sets the trimmed display name
func (s *Store) Rename(id, name string) (*models.Profile, error) {
	return s.update(id, func(p *models.Profile) error {
		p.Name = strings.TrimSpace(name)
		return nil
	})
}

// UpdateNotes replaces the free-text notes
func (s *Store) UpdateNotes(id, notes string) (*models.Profile, error) {
	return s.update(id, func(p *models.Profile) error {
		p.Notes = notes
		return nil
	})
}

// setMembership adds or removes id without creating duplicates
func setMembership(list []string, id string, checked bool) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == id {
			if checked && !found {
				out = append(out, v)
			}
			found = true
			continue
		}
		out = append(out, v)
	}
	if checked && !found {
		out = append(out, id)
	}
	return out
}

// ToggleFlag checks or unchecks a green flag, red flag or dealbreaker and
// recomputes the grade against the current criteria.
func (s *Store) ToggleFlag(id string, category models.Category, flagID string, checked bool) (*models.Profile, error) {
	if category == models.Investment || !category.Valid() {
		return nil, fmt.Errorf("%w: %s is not a flag category", models.ErrUnknownCategory, category)
	}

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	return s.update(id, func(p *models.Profile) error {
		ref := p.CheckedRef(category)
		*ref = setMembership(*ref, flagID, checked)
		s.engine.Apply(p, snap)
		return nil
	})
}

// ToggleInvestmentStage checks or unchecks a stage. Only the cached
// investment count changes; the grade is left as is.
func (s *Store) ToggleInvestmentStage(id, stageID string, checked bool) (*models.Profile, error) {
	return s.update(id, func(p *models.Profile) error {
		p.InvestmentStages = setMembership(p.InvestmentStages, stageID, checked)
		p.GradeDetails.InvestmentCount = len(p.InvestmentStages)
		return nil
	})
}

// Archive soft-deletes a profile
func (s *Store) Archive(id string) (*models.Profile, error) {
	return s.update(id, func(p *models.Profile) error {
		p.IsArchived = true
		return nil
	})
}

// Restore brings back an archived profile
func (s *Store) Restore(id string) (*models.Profile, error) {
	return s.update(id, func(p *models.Profile) error {
		p.IsArchived = false
		return nil
	})
}

// Delete removes a profile permanently
func (s *Store) Delete(id string) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := doc.Profiles[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrProfileNotFound, id)
	}
	delete(doc.Profiles, id)
	return s.save(doc)
}

// Regrade recomputes the cached grade of every profile against the current
// criteria and returns how many grades changed.
func (s *Store) Regrade() (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	doc, err := s.Load()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, p := range doc.Profiles {
		before := p.Grade
		s.engine.Apply(p, snap)
		if p.Grade != before {
			changed++
		}
	}
	if err := s.save(doc); err != nil {
		return 0, err
	}
	return changed, nil
}

// Export returns the document as 2-space indented JSON
func (s *Store) Export() (string, error) {
	doc, err := s.Load()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profiles: %w", err)
	}
	return string(data), nil
}

// Import replaces every profile with those in data. data must be a JSON object
// with a non-null "profiles" member; otherwise the store is left unchanged.
func (s *Store) Import(data string) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidImport, err)
	}
	raw, ok := envelope["profiles"]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("%w: missing profiles", models.ErrInvalidImport)
	}

	profiles := map[string]*models.Profile{}
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidImport, err)
	}
	for id, p := range profiles {
		if p == nil {
			delete(profiles, id)
			continue
		}
		normalize(p)
	}

	return s.save(&Document{Version: SchemaVersion, Profiles: profiles})
}

// Clear removes every profile
func (s *Store) Clear() error {
	return s.save(newDocument())
}
