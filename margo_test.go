package margo

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margoproject/margo/internal/config"
	"github.com/margoproject/margo/pkg/errors"
	"github.com/margoproject/margo/pkg/reconcile"
	"github.com/margoproject/margo/pkg/templates"
)

func testBundled() fstest.MapFS {
	return fstest.MapFS{
		"baselines/default.toml":  &fstest.MapFile{Data: []byte("vars = [\"age\", \"male\"]\n")},
		"outcomes/wellbeing.toml": &fstest.MapFile{Data: []byte("vars = [\"pwi\"]\n")},
	}
}

func newTestMargo(t *testing.T, dir string, opts ...Option) Margo {
	t.Helper()
	opts = append([]Option{WithConfigDir(dir), WithBundled(testBundled())}, opts...)
	m, err := New(opts...)
	require.NoError(t, err)
	return m
}

func TestNewUsesEnvConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)

	m, err := New(WithBundled(testBundled()))
	require.NoError(t, err)
	assert.Equal(t, dir, m.ConfigDir())
}

func TestConfigAccessor(t *testing.T) {
	dir := t.TempDir()
	content := `[paths]
pull_data = "/data/nzavs"

[defaults]
baselines = "extended"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.Filename), []byte(content), 0o644))

	m := newTestMargo(t, dir)
	cfg := m.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, "/data/nzavs", cfg.PullData)
	assert.Equal(t, "extended", cfg.DefaultBaseline)
	assert.Empty(t, cfg.PushMods)
}

func TestInitWorkspace(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)

	result, err := m.InitWorkspace()
	require.NoError(t, err)
	assert.True(t, result.ConfigCreated)
	assert.Equal(t, dir, result.ConfigDir)
	require.NoError(t, result.Report.Err())
	assert.Len(t, result.Report.Outcomes, 2)

	for _, path := range []string{
		filepath.Join(dir, config.Filename),
		filepath.Join(dir, "baselines", "examples", "default.toml"),
		filepath.Join(dir, "outcomes", "examples", "wellbeing.toml"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	// Second init changes nothing.
	result, err = m.InitWorkspace()
	require.NoError(t, err)
	assert.False(t, result.ConfigCreated)
	assert.False(t, result.Report.HasChanges())
}

func TestExamplesStatuses(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)

	// Before init everything is new.
	statuses, err := m.Examples()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.Equal(t, StatusNew, s.Status)
	}

	_, err = m.InitWorkspace()
	require.NoError(t, err)

	statuses, err = m.Examples()
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, StatusSynced, s.Status)
	}

	// User edits the wellbeing copy, a new default ships: diverged.
	wellbeingPath := filepath.Join(dir, "outcomes", "examples", "wellbeing.toml")
	require.NoError(t, os.WriteFile(wellbeingPath, []byte("vars = [\"pwi\", \"extra\"]\n"), 0o644))
	bundled := testBundled()
	bundled["outcomes/wellbeing.toml"] = &fstest.MapFile{Data: []byte("vars = [\"pwi\", \"gratitude\"]\n")}

	m2, err := New(WithConfigDir(dir), WithBundled(bundled))
	require.NoError(t, err)
	statuses, err = m2.Examples()
	require.NoError(t, err)
	byID := map[string]string{}
	for _, s := range statuses {
		byID[s.ID.String()] = s.Status
	}
	assert.Equal(t, StatusSynced, byID["baseline/default"])
	assert.Equal(t, StatusDiverged, byID["outcome/wellbeing"])
}

func TestExamplesReportsUntrackedAndConflict(t *testing.T) {
	dir := t.TempDir()

	// A hand-authored file occupies the wellbeing identity.
	path := filepath.Join(dir, "outcomes", "examples", "wellbeing.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("mine\n"), 0o644))

	m := newTestMargo(t, dir)
	statuses, err := m.Examples()
	require.NoError(t, err)
	byID := map[string]string{}
	for _, s := range statuses {
		byID[s.ID.String()] = s.Status
	}
	assert.Equal(t, StatusUntracked, byID["outcome/wellbeing"])

	// A tracked template that is no longer bundled shows as a conflict.
	_, err = m.Apply()
	require.NoError(t, err)
	trimmed := fstest.MapFS{
		"baselines/.keep":         &fstest.MapFile{},
		"outcomes/wellbeing.toml": testBundled()["outcomes/wellbeing.toml"],
	}
	m2, err := New(WithConfigDir(dir), WithBundled(trimmed))
	require.NoError(t, err)
	statuses, err = m2.Examples()
	require.NoError(t, err)
	byID = map[string]string{}
	for _, s := range statuses {
		byID[s.ID.String()] = s.Status
	}
	assert.Equal(t, StatusConflict, byID["baseline/default"])
}

func TestListReturnsUserTemplatesOnly(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)
	_, err := m.InitWorkspace()
	require.NoError(t, err)

	// Managed examples are not user templates.
	ids, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = m.CopyExample(templates.ID{Kind: templates.KindBaseline, Name: "default"})
	require.NoError(t, err)

	ids, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []templates.ID{{Kind: templates.KindBaseline, Name: "default"}}, ids)
}

func TestCopyExample(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)
	id := templates.ID{Kind: templates.KindOutcome, Name: "wellbeing"}

	// Works before init by falling back to the bundled content.
	dest, err := m.CopyExample(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "outcomes", "wellbeing.toml"), dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "vars = [\"pwi\"]\n", string(data))

	// Refuses to overwrite.
	_, err = m.CopyExample(id)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	// Unknown template.
	_, err = m.CopyExample(templates.ID{Kind: templates.KindOutcome, Name: "ghost"})
	assert.True(t, errors.IsNotFound(err))
}

func TestCopyExamplePrefersMaterializedCopy(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)
	id := templates.ID{Kind: templates.KindOutcome, Name: "wellbeing"}
	_, err := m.InitWorkspace()
	require.NoError(t, err)

	// User tweaks the managed example; copy picks up the tweak.
	examplePath := filepath.Join(dir, "outcomes", "examples", "wellbeing.toml")
	require.NoError(t, os.WriteFile(examplePath, []byte("vars = [\"pwi\", \"hope\"]\n"), 0o644))

	dest, err := m.CopyExample(id)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "vars = [\"pwi\", \"hope\"]\n", string(data))
}

func TestPlanIsSideEffectFree(t *testing.T) {
	dir := t.TempDir()
	m := newTestMargo(t, dir)

	actions, err := m.Plan()
	require.NoError(t, err)
	assert.Len(t, actions, 2)
	for _, a := range actions {
		assert.Equal(t, reconcile.OpCreate, a.Op)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
