// Package criteria resolves a user's effective criteria configuration: which
// criteria are enabled in each category and how much each one weighs.
package criteria

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
)

// NewItem holds the user supplied fields of a custom criterion
type NewItem struct {
	Label       string `json:"label" binding:"required,max=200"`
	Icon        string `json:"icon" binding:"max=64"`
	Explanation string `json:"explanation" binding:"max=2000"`
	Description string `json:"description" binding:"max=2000"`
}

// ItemView is a criterion together with its resolved state
type ItemView struct {
	models.Criterion
	Enabled bool `json:"enabled"`
	Weight  int  `json:"weight"`
}

// Resolver reads and mutates one user's criteria document. Every mutation is
// a whole-document read-modify-write; callers serialize writers per owner.
type Resolver struct {
	store repository.DocumentStore
	log   logger.Logger
}

// NewResolver creates a resolver over a single-owner document store
func NewResolver(store repository.DocumentStore, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{store: store, log: log}
}

// Load returns the stored document. A missing document, or one that cannot be
// decoded, yields a fresh default document. Storage failures are returned.
func (r *Resolver) Load() (*Document, error) {
	raw, err := r.store.Get(StorageKey)
	if errors.Is(err, repository.ErrNotFound) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load criteria: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		r.log.Warn("criteria document unreadable, using defaults", "error", err.Error())
		return NewDocument(), nil
	}
	doc.normalize()
	return doc, nil
}

func (r *Resolver) save(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode criteria: %w", err)
	}
	if err := r.store.Put(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save criteria: %w", err)
	}
	return nil
}

func checkCategory(c models.Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", models.ErrUnknownCategory, c)
	}
	return nil
}

// EnabledIDs resolves the effective enabled set of a category. A catalog item
// is enabled when the category is on Defaults and isDefault selects it, or when
// an override is stored and lists its id. Custom items are always enabled.
func (r *Resolver) EnabledIDs(category models.Category, builtIn []models.Criterion, isDefault func(models.Criterion) bool) (IDSet, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}
	return enabledIDs(doc, category, builtIn, isDefault), nil
}

func enabledIDs(doc *Document, category models.Category, builtIn []models.Criterion, isDefault func(models.Criterion) bool) IDSet {
	enabled := doc.Enabled(category)
	out := make(IDSet)
	for _, item := range builtIn {
		if enabled.IsOverride() {
			if enabled.Contains(item.ID) {
				out.Add(item.ID)
			}
		} else if isDefault(item) {
			out.Add(item.ID)
		}
	}
	for _, item := range *doc.section(category).custom {
		out.Add(item.ID)
	}
	return out
}

// Weight returns the weight of a criterion, DefaultWeight when none is stored
func (r *Resolver) Weight(category models.Category, id string) (int, error) {
	if err := checkCategory(category); err != nil {
		return 0, err
	}
	doc, err := r.Load()
	if err != nil {
		return 0, err
	}
	return weightOf(*doc.section(category).weights, id), nil
}

func weightOf(weights map[string]int, id string) int {
	if w, ok := weights[id]; ok {
		return ClampWeight(w)
	}
	return DefaultWeight
}

// Weights returns the stored (non-default) weights of a category
func (r *Resolver) Weights(category models.Category) (map[string]int, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}
	return doc.Weights(category), nil
}

// SetWeight clamps raw into [1,5] and stores it. DefaultWeight is never stored;
// setting it removes any existing entry.
func (r *Resolver) SetWeight(category models.Category, id string, raw int) (int, error) {
	if err := checkCategory(category); err != nil {
		return 0, err
	}
	doc, err := r.Load()
	if err != nil {
		return 0, err
	}

	weight := ClampWeight(raw)
	weights := *doc.section(category).weights
	if weight == DefaultWeight {
		delete(weights, id)
	} else {
		weights[id] = weight
	}

	if err := r.save(doc); err != nil {
		return 0, err
	}
	return weight, nil
}

// ToggleEnabled flips id in the category's override. A category still on
// Defaults is first materialized from allDefaultIDs so other items keep
// their state.
func (r *Resolver) ToggleEnabled(category models.Category, id string, allDefaultIDs []string) (IDSet, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}

	s := doc.section(category)
	current := *s.enabled
	if !current.IsOverride() {
		current = Override(allDefaultIDs)
	}
	if current.Contains(id) {
		current = current.without(id)
	} else {
		current = current.with(id)
	}
	*s.enabled = current

	if err := r.save(doc); err != nil {
		return nil, err
	}
	return NewIDSet(current.ids...), nil
}

// AddCustomItem stores a new user-defined criterion. When the category already
// has an override the new id is appended to it too.
func (r *Resolver) AddCustomItem(category models.Category, item NewItem) (models.Criterion, error) {
	if err := checkCategory(category); err != nil {
		return models.Criterion{}, err
	}
	label := strings.TrimSpace(item.Label)
	if label == "" {
		return models.Criterion{}, fmt.Errorf("%w: label is required", models.ErrInvalidItem)
	}

	doc, err := r.Load()
	if err != nil {
		return models.Criterion{}, err
	}

	created := models.Criterion{
		ID:          newCustomID(category),
		Label:       label,
		Icon:        item.Icon,
		IsCustom:    true,
		Explanation: item.Explanation,
		Description: item.Description,
	}
	if created.Icon == "" {
		created.Icon = models.DefaultCustomIcon
	}

	s := doc.section(category)
	*s.custom = append(*s.custom, created)
	if s.enabled.IsOverride() {
		*s.enabled = s.enabled.with(created.ID)
	}

	if err := r.save(doc); err != nil {
		return models.Criterion{}, err
	}

	r.log.Debug("custom criterion added", "category", category.String(), "id", created.ID)
	return created, nil
}

func newCustomID(category models.Category) string {
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("custom-%s-%s", category, unique)
}

// RemoveCustomItem deletes a custom criterion and drops it from any override.
// It reports whether the item existed.
func (r *Resolver) RemoveCustomItem(category models.Category, id string) (bool, error) {
	if err := checkCategory(category); err != nil {
		return false, err
	}
	doc, err := r.Load()
	if err != nil {
		return false, err
	}

	s := doc.section(category)
	index := -1
	for i, item := range *s.custom {
		if item.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}

	items := *s.custom
	*s.custom = append(items[:index:index], items[index+1:]...)
	if s.enabled.IsOverride() {
		*s.enabled = s.enabled.without(id)
	}

	if err := r.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// CustomItems returns the custom criteria of a category
func (r *Resolver) CustomItems(category models.Category) ([]models.Criterion, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}
	return doc.Custom(category), nil
}

// ResetCategory returns one category to Defaults with no custom items or weights
func (r *Resolver) ResetCategory(category models.Category) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	doc, err := r.Load()
	if err != nil {
		return err
	}
	doc.resetSection(category)
	return r.save(doc)
}

// ResetAll replaces the whole document with the default configuration
func (r *Resolver) ResetAll() error {
	return r.save(NewDocument())
}

// Export returns the current document as indented JSON
func (r *Resolver) Export() (string, error) {
	doc, err := r.Load()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode criteria: %w", err)
	}
	return string(data), nil
}

// Import stores data verbatim as the new configuration. Only JSON syntax is
// checked; a structurally wrong document reads back as the defaults.
func (r *Resolver) Import(data string) error {
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: criteria are not valid JSON", models.ErrInvalidImport)
	}
	if err := r.store.Put(StorageKey, data); err != nil {
		return fmt.Errorf("failed to save criteria: %w", err)
	}
	return nil
}

// Describe lists the built-in and custom criteria of a category with their
// enabled state and weight.
func (r *Resolver) Describe(category models.Category, builtIn []models.Criterion) ([]ItemView, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}

	enabled := enabledIDs(doc, category, builtIn, models.IsDefaultCriterion)
	weights := *doc.section(category).weights

	views := make([]ItemView, 0, len(builtIn)+len(*doc.section(category).custom))
	for _, item := range append(builtIn[:len(builtIn):len(builtIn)], doc.Custom(category)...) {
		views = append(views, ItemView{
			Criterion: item,
			Enabled:   enabled.Has(item.ID),
			Weight:    weightOf(weights, item.ID),
		})
	}
	return views, nil
}

// Snapshot resolves every category against cat in a single read
func (r *Resolver) Snapshot(cat *catalog.Catalog) (Snapshot, error) {
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(doc, cat), nil
}
