package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestStore(t *testing.T) (*Store, repository.DocumentStore) {
	t.Helper()
	cat := catalog.MustLoad()
	docs := repository.NewMemoryStore()
	store := NewStore(docs, func() (criteria.Snapshot, error) {
		return criteria.DefaultSnapshot(cat), nil
	}, nil, nil)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store.now = clock.now
	return store, docs
}

func TestCreate(t *testing.T) {
	store, _ := newTestStore(t)

	p, err := store.Create("  Alex  ")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alex", p.Name)
	assert.Equal(t, models.GradeC, p.Grade)
	assert.Equal(t, models.GradeDetails{}, p.GradeDetails)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Empty(t, p.GreenFlags)
	assert.NotNil(t, p.GreenFlags)

	got, err := store.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, models.ErrProfileNotFound))
}

func TestRenameAndNotes(t *testing.T) {
	store, _ := newTestStore(t)
	p, err := store.Create("Alex")
	require.NoError(t, err)

	renamed, err := store.Rename(p.ID, " Sam ")
	require.NoError(t, err)
	assert.Equal(t, "Sam", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(p.UpdatedAt))

	noted, err := store.UpdateNotes(p.ID, "  met at a concert ")
	require.NoError(t, err)
	assert.Equal(t, "  met at a concert ", noted.Notes)

	_, err = store.Rename("missing", "x")
	assert.True(t, errors.Is(err, models.ErrProfileNotFound))
}

func TestToggleFlagRecomputesGrade(t *testing.T) {
	store, _ := newTestStore(t)
	p, err := store.Create("Alex")
	require.NoError(t, err)

	var updated *models.Profile
	for i := 1; i <= 14; i++ {
		updated, err = store.ToggleFlag(p.ID, models.GreenFlags, idOf("gf", i), true)
		require.NoError(t, err)
	}

	assert.Equal(t, models.GradeAPlus, updated.Grade)
	assert.Equal(t, 82, updated.GradeDetails.GreenPercent)
	assert.Len(t, updated.GreenFlags, 14)

	updated, err = store.ToggleFlag(p.ID, models.GreenFlags, "gf-1", true)
	require.NoError(t, err)
	assert.Len(t, updated.GreenFlags, 14, "checking twice does not duplicate")

	for i := 1; i <= 5; i++ {
		updated, err = store.ToggleFlag(p.ID, models.Dealbreakers, idOf("db", i), true)
		require.NoError(t, err)
	}
	assert.Equal(t, models.GradeF, updated.Grade)

	updated, err = store.ToggleFlag(p.ID, models.Dealbreakers, "db-5", false)
	require.NoError(t, err)
	assert.Equal(t, models.GradeD, updated.Grade)
	assert.NotContains(t, updated.Dealbreakers, "db-5")
}

func TestToggleFlagRejectsInvestment(t *testing.T) {
	store, _ := newTestStore(t)
	p, err := store.Create("Alex")
	require.NoError(t, err)

	_, err = store.ToggleFlag(p.ID, models.Investment, "inv-1", true)
	assert.True(t, errors.Is(err, models.ErrUnknownCategory))
}

func TestToggleInvestmentStageLeavesGrade(t *testing.T) {
	store, _ := newTestStore(t)
	p, err := store.Create("Alex")
	require.NoError(t, err)

	updated, err := store.ToggleInvestmentStage(p.ID, "inv-1", true)
	require.NoError(t, err)
	updated, err = store.ToggleInvestmentStage(p.ID, "inv-2", true)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.GradeDetails.InvestmentCount)
	assert.Equal(t, models.GradeC, updated.Grade, "investment stages do not feed the grade")
	assert.Equal(t, 0, updated.GradeDetails.GreenPercent)

	updated, err = store.ToggleInvestmentStage(p.ID, "inv-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"inv-2"}, updated.InvestmentStages)
	assert.Equal(t, 1, updated.GradeDetails.InvestmentCount)
}

func TestArchiveRestoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	a, err := store.Create("A")
	require.NoError(t, err)
	b, err := store.Create("B")
	require.NoError(t, err)

	_, err = store.Archive(a.ID)
	require.NoError(t, err)

	active, err := store.List(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	all, err := store.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID, "most recently updated first")

	archived, err := store.Archived()
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, a.ID, archived[0].ID)

	restored, err := store.Restore(a.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)

	require.NoError(t, store.Delete(a.ID))
	_, err = store.Get(a.ID)
	assert.True(t, errors.Is(err, models.ErrProfileNotFound))

	err = store.Delete(a.ID)
	assert.True(t, errors.Is(err, models.ErrProfileNotFound))
}

func TestExportImportRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	p, err := store.Create("Alex")
	require.NoError(t, err)
	_, err = store.ToggleFlag(p.ID, models.RedFlags, "rf-1", true)
	require.NoError(t, err)
	_, err = store.UpdateNotes(p.ID, "notes")
	require.NoError(t, err)

	exported, err := store.Export()
	require.NoError(t, err)
	assert.Contains(t, exported, "\n  \"version\": 1")

	other, _ := newTestStore(t)
	require.NoError(t, other.Import(exported))

	want, err := store.Load()
	require.NoError(t, err)
	got, err := other.Load()
	require.NoError(t, err)

	require.Len(t, got.Profiles, 1)
	assert.Equal(t, want.Profiles[p.ID].Name, got.Profiles[p.ID].Name)
	assert.Equal(t, want.Profiles[p.ID].RedFlags, got.Profiles[p.ID].RedFlags)
	assert.Equal(t, want.Profiles[p.ID].GradeDetails, got.Profiles[p.ID].GradeDetails)
	assert.True(t, want.Profiles[p.ID].UpdatedAt.Equal(got.Profiles[p.ID].UpdatedAt))
}

func TestImportRejectsMissingProfiles(t *testing.T) {
	store, docs := newTestStore(t)
	_, err := store.Create("Keep me")
	require.NoError(t, err)
	before, err := docs.Get(StorageKey)
	require.NoError(t, err)

	for _, input := range []string{`{"version":1}`, `{"profiles":null}`, `not json`, `[]`} {
		err := store.Import(input)
		assert.True(t, errors.Is(err, models.ErrInvalidImport), input)
	}

	after, err := docs.Get(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportResetsVersion(t *testing.T) {
	store, docs := newTestStore(t)

	require.NoError(t, store.Import(`{"version":7,"profiles":{"x":{"id":"x","name":"X"}}}`))

	raw, err := docs.Get(StorageKey)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, float64(1), doc["version"])

	p, err := store.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.GreenFlags)
}

func TestLoadMigratesOtherVersions(t *testing.T) {
	store, docs := newTestStore(t)
	require.NoError(t, docs.Put(StorageKey, `{"version":0,"extra":true,"profiles":{"x":{"id":"x","name":"X"}}}`))

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, doc.Version)
	assert.Contains(t, doc.Profiles, "x")
}

func TestLoadUnreadableDocument(t *testing.T) {
	store, docs := newTestStore(t)
	require.NoError(t, docs.Put(StorageKey, `{{{`))

	list, err := store.List(true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("A")
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	list, err := store.List(true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegrade(t *testing.T) {
	store, docs := newTestStore(t)
	require.NoError(t, docs.Put(StorageKey,
		`{"version":1,"profiles":{"x":{"id":"x","name":"X","greenFlags":["gf-1","gf-2","gf-3","gf-4","gf-5","gf-6","gf-7","gf-8","gf-9","gf-10","gf-11","gf-12","gf-13","gf-14"],"grade":"C"}}}`))

	changed, err := store.Regrade()
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	p, err := store.Get("x")
	require.NoError(t, err)
	assert.Equal(t, models.GradeAPlus, p.Grade)
}

func TestSeedExamples(t *testing.T) {
	store, _ := newTestStore(t)

	seeded, err := store.SeedExamples()
	require.NoError(t, err)
	assert.True(t, seeded)

	want := map[string]models.Grade{
		"demo-marcus":  models.GradeAPlus,
		"demo-james":   models.GradeA,
		"demo-ryan":    models.GradeB,
		"demo-brandon": models.GradeC,
		"demo-chad":    models.GradeD,
		"demo-derek":   models.GradeF,
	}
	for id, grade := range want {
		p, err := store.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, grade, p.Grade, id)
		assert.Equal(t, len(p.InvestmentStages), p.GradeDetails.InvestmentCount, id)
		assert.True(t, p.CreatedAt.Before(p.UpdatedAt), id)
	}

	seeded, err = store.SeedExamples()
	require.NoError(t, err)
	assert.False(t, seeded, "seeding only happens on an empty store")
}

func TestSetMembership(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, setMembership([]string{"a"}, "b", true))
	assert.Equal(t, []string{"a"}, setMembership([]string{"a"}, "a", true))
	assert.Equal(t, []string{"b"}, setMembership([]string{"a", "b", "a"}, "a", false))
	assert.Equal(t, []string{}, setMembership(nil, "a", false))
}

func idOf(prefix string, n int) string {
	return fmt.Sprintf("%s-%d", prefix, n)
}
