package submodule

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

const twoSubmodules = `[submodule "backend"]
	path = backend
	url = git@github.com:example/backend
[submodule "frontend"]
	path = frontend
	url = git@github.com:example/frontend
`

func TestParseDeclaredPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two submodules",
			input: twoSubmodules,
			want:  []string{"backend", "frontend"},
		},
		{
			name:  "empty file",
			input: "",
			want:  nil,
		},
		{
			name:  "no path lines",
			input: "[submodule \"x\"]\n\turl = git@example.com:x\n",
			want:  nil,
		},
		{
			name:  "trailing whitespace trimmed",
			input: "path = services/api   \r\n",
			want:  []string{"services/api"},
		},
		{
			name:  "duplicates kept in order",
			input: "path = a\npath = b\npath = a\n",
			want:  []string{"a", "b", "a"},
		},
		{
			name:  "value after first marker only",
			input: "path = x path = y\n",
			want:  []string{"x path = y"},
		},
		{
			name:  "no space around equals is not a declaration",
			input: "path=backend\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeclaredPaths(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeGitmodules(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, model.DefaultSubmodulesFilename), []byte(content), 0644))
}

func TestInventoryList(t *testing.T) {
	root := t.TempDir()
	writeGitmodules(t, root, twoSubmodules)
	require.NoError(t, os.Mkdir(filepath.Join(root, "frontend"), 0755))

	inv := NewInventory(NewResolver(root), model.DefaultSubmodulesFilename)
	entries, err := inv.List()
	require.NoError(t, err)

	assert.Equal(t, []model.SubmoduleEntry{
		{DeclaredPath: "backend", AbsolutePath: filepath.Join(root, "backend"), Exists: false},
		{DeclaredPath: "frontend", AbsolutePath: filepath.Join(root, "frontend"), Exists: true},
	}, entries)
	assert.Equal(t, model.StatePartiallyInitialized, model.StateOf(entries))
}

func TestInventoryList_EmptyFile(t *testing.T) {
	root := t.TempDir()
	writeGitmodules(t, root, "")

	entries, err := NewInventory(NewResolver(root), model.DefaultSubmodulesFilename).List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInventoryList_MissingFile(t *testing.T) {
	root := t.TempDir()

	entries, err := NewInventory(NewResolver(root), model.DefaultSubmodulesFilename).List()
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, errors.Is(err, model.ErrSubmodulesFileMissing))
	assert.Equal(t, model.ExitSubmodulesFileMissing, model.ExitCodeFor(err))
}

func TestInventoryFromConfig(t *testing.T) {
	root := t.TempDir()
	writeGitmodules(t, root, "path = backend\n")

	cfg := model.DefaultProjectConfig(root)
	inv := NewInventoryFromConfig(cfg)

	assert.Equal(t, filepath.Join(root, model.DefaultSubmodulesFilename), inv.Path())
	assert.Equal(t, root, inv.Resolver().Root())

	entries, err := inv.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Exists)
}
