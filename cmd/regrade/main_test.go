package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/vetted-api/internal/logger"
)

const profileExport = `{
  "version": 1,
  "profiles": {
    "p1": {
      "id": "p1",
      "name": "Jordan",
      "greenFlags": ["gf-1", "gf-2", "gf-3", "gf-4", "gf-5", "gf-6", "gf-7", "gf-8", "gf-9"],
      "redFlags": [],
      "dealbreakers": [],
      "investmentStages": [],
      "grade": "C"
    }
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunWithDefaults(t *testing.T) {
	result, err := run(writeFile(t, "profiles.json", profileExport), "", "", logger.NewNop())
	require.NoError(t, err)

	require.Len(t, result.rows, 1)
	assert.Equal(t, "C", result.rows[0].before)
	assert.Equal(t, "C", result.rows[0].after)
	assert.Equal(t, 53, result.rows[0].green)
	assert.Equal(t, 0, result.changed)
}

func TestRunAgainstCriteriaExport(t *testing.T) {
	// Only the nine checked greens are enabled, so the profile scores 100%
	criteriaExport := `{"version":1,"enabledGreenFlags":["gf-1","gf-2","gf-3","gf-4","gf-5","gf-6","gf-7","gf-8","gf-9"]}`

	result, err := run(
		writeFile(t, "profiles.json", profileExport),
		writeFile(t, "criteria.json", criteriaExport),
		"",
		logger.NewNop(),
	)
	require.NoError(t, err)

	assert.Equal(t, "A+", result.rows[0].after)
	assert.Equal(t, 1, result.changed)
	assert.Contains(t, result.export, `"grade": "A+"`)

	var out bytes.Buffer
	printTable(&out, result)
	assert.Contains(t, out.String(), "Jordan")
	assert.Contains(t, out.String(), "1 of 1 grades changed")
}

func TestRunRejectsBadExport(t *testing.T) {
	_, err := run(writeFile(t, "profiles.json", `{"version":1}`), "", "", logger.NewNop())
	assert.Error(t, err)

	_, err = run(filepath.Join(t.TempDir(), "missing.json"), "", "", logger.NewNop())
	assert.Error(t, err)
}
