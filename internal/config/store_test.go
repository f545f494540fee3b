package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// newTestStore returns a Store rooted at a fresh temp dir whose warnings
// are captured in the returned buffer.
func newTestStore(t *testing.T) (*Store, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewStore(t.TempDir(), "", logger), &logs
}

// TestLoad_CreatesDefault verifies the first-run behavior: an absent
// config file is created with defaults rooted at the store directory.
func TestLoad_CreatesDefault(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, store.Dir, cfg.ProjectPath)
	assert.Equal(t, "docker-compose.yaml", cfg.DockerCompose)
	assert.Equal(t, ".gitmodules", cfg.Gitmodules)
	assert.Equal(t, "project", cfg.ProjectName)
	assert.Equal(t, "0.1.0-alpha", cfg.ProjectVersion)

	data, err := os.ReadFile(filepath.Join(store.Dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project_path: "+store.Dir+"\n")
	assert.Contains(t, string(data), "docker_compose: docker-compose.yaml\n")
	assert.Contains(t, string(data), "gitmodules: .gitmodules\n")
}

// TestLoad_SaveRoundTrip checks that saving a freshly loaded default
// config reproduces the file byte for byte.
func TestLoad_SaveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, err := store.Load()
	require.NoError(t, err)
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	require.NoError(t, store.Save(cfg))
	reloaded, err := store.Load()
	require.NoError(t, err)
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, cfg, reloaded)
}

func TestLoad_ExistingFile(t *testing.T) {
	store, logs := newTestStore(t)

	doc := "project_path: " + store.Dir + "\n" +
		"docker_compose: compose.yml\n" +
		"gitmodules: .gitmodules\n" +
		"project_name: shop\n" +
		"project_version: 2.0.0\n" +
		"github_api_token: null\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(doc), 0600))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.ProjectName)
	assert.Equal(t, "compose.yml", cfg.DockerCompose)
	assert.NotContains(t, logs.String(), "does not match")
}

// TestLoad_ProjectPathMismatch verifies that a config copied from another
// directory loads with a warning and is not corrected.
func TestLoad_ProjectPathMismatch(t *testing.T) {
	store, logs := newTestStore(t)

	cfg := model.DefaultProjectConfig("/somewhere/else")
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "/somewhere/else", loaded.ProjectPath)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "does not match the working directory")
}

func TestLoad_DotProjectPathExpands(t *testing.T) {
	store, logs := newTestStore(t)

	cfg := model.DefaultProjectConfig(".")
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Dir, loaded.ProjectPath)
	assert.NotContains(t, logs.String(), "does not match")

	// The file keeps the marker.
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "project_path: .\n")
}

func TestLoad_Corrupt(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("project_path: [oops\n"), 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfigCorrupt))
	assert.Equal(t, model.ExitGeneralError, model.ExitCodeFor(err))
}

func TestLoad_UnreadableIsCorrupt(t *testing.T) {
	store, _ := newTestStore(t)
	// A directory in place of the file cannot be read as a document.
	require.NoError(t, os.Mkdir(store.Path(), 0755))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfigCorrupt))
}

func TestSave_WriteError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "dir"), "", nil)

	err := store.Save(model.DefaultProjectConfig(store.Dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfigWrite))

	// Load on a missing directory surfaces the same write failure.
	_, err = store.Load()
	assert.True(t, errors.Is(err, model.ErrConfigWrite))
}

func TestStore_Path(t *testing.T) {
	assert.Equal(t, "/proj/config.yaml", NewStore("/proj", "", nil).Path())
	assert.Equal(t, "/proj/alt.yaml", NewStore("/proj", "alt.yaml", nil).Path())
	assert.Equal(t, "/etc/polyrepo.yaml", NewStore("/proj", "/etc/polyrepo.yaml", nil).Path())
}
