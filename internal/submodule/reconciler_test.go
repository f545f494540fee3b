package submodule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// fakeUpdater records calls and optionally materializes directories.
type fakeUpdater struct {
	calls  []string
	errs   []error
	create []string
}

func (f *fakeUpdater) SubmoduleUpdate(_ context.Context, projectRoot string) error {
	f.calls = append(f.calls, projectRoot)
	for _, dir := range f.create {
		if err := os.MkdirAll(filepath.Join(projectRoot, dir), 0755); err != nil {
			return err
		}
	}
	if i := len(f.calls) - 1; i < len(f.errs) {
		return f.errs[i]
	}
	return nil
}

func entriesFor(t *testing.T, root string, lines string) []model.SubmoduleEntry {
	t.Helper()
	writeGitmodules(t, root, lines)
	entries, err := NewInventory(NewResolver(root), model.DefaultSubmodulesFilename).List()
	require.NoError(t, err)
	return entries
}

func TestReconcile_BothMissing(t *testing.T) {
	root := t.TempDir()
	entries := entriesFor(t, root, "path = backend\npath = frontend\n")

	updater := &fakeUpdater{}
	result := NewReconciler(NewResolver(root), updater, nil).Reconcile(context.Background(), entries)

	assert.True(t, result.AnyMissing)
	assert.Equal(t, []string{root, root}, updater.calls, "one update per missing entry, run in the project root")
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, "backend", result.Attempts[0].Entry.DeclaredPath)
	assert.Equal(t, "frontend", result.Attempts[1].Entry.DeclaredPath)
	assert.Empty(t, result.Failed())
}

func TestReconcile_NothingMissingIsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "backend"), 0755))
	entries := entriesFor(t, root, "path = backend\n")

	updater := &fakeUpdater{}
	rec := NewReconciler(NewResolver(root), updater, nil)

	first := rec.Reconcile(context.Background(), entries)
	second := rec.Reconcile(context.Background(), entries)

	assert.Equal(t, first, second)
	assert.False(t, first.AnyMissing)
	assert.Empty(t, updater.calls)
}

func TestReconcile_SecondRunAfterMaterialize(t *testing.T) {
	root := t.TempDir()
	updater := &fakeUpdater{create: []string{"backend"}}
	rec := NewReconciler(NewResolver(root), updater, nil)

	first := rec.Reconcile(context.Background(), entriesFor(t, root, "path = backend\n"))
	assert.True(t, first.AnyMissing)

	second := rec.Reconcile(context.Background(), entriesFor(t, root, "path = backend\n"))
	assert.False(t, second.AnyMissing)
	assert.Len(t, updater.calls, 1)
}

func TestReconcile_FailureContinuesSweep(t *testing.T) {
	root := t.TempDir()
	entries := entriesFor(t, root, "path = backend\npath = frontend\n")

	failure := errors.Join(model.ErrSubmoduleUpdateFailed, errors.New("exit status 128"))
	updater := &fakeUpdater{errs: []error{failure}}
	result := NewReconciler(NewResolver(root), updater, nil).Reconcile(context.Background(), entries)

	assert.True(t, result.AnyMissing)
	assert.Len(t, updater.calls, 2, "a failed update must not stop the sweep")
	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "backend", failed[0].Entry.DeclaredPath)
	assert.True(t, errors.Is(failed[0].Err, model.ErrSubmoduleUpdateFailed))
}

func TestReconcile_Empty(t *testing.T) {
	updater := &fakeUpdater{}
	result := NewReconciler(NewResolver(t.TempDir()), updater, nil).Reconcile(context.Background(), nil)

	assert.False(t, result.AnyMissing)
	assert.Empty(t, updater.calls)
}

func TestDeleteAll_RemovesExistingDirectory(t *testing.T) {
	root := t.TempDir()
	backend := filepath.Join(root, "backend")
	require.NoError(t, os.MkdirAll(filepath.Join(backend, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(backend, "src", "main.go"), []byte("package main\n"), 0644))

	entries := entriesFor(t, root, "path = backend\n")
	result := NewReconciler(NewResolver(root), &fakeUpdater{}, nil).DeleteAll(entries)

	assert.True(t, result.AllRemoved())
	assert.NoDirExists(t, backend)
	assert.FileExists(t, filepath.Join(root, model.DefaultSubmodulesFilename))
}

func TestDeleteAll_AbsentTargetCountsAsRemoved(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "backend"), 0755))

	entries := entriesFor(t, root, "path = backend\npath = frontend\n")
	result := NewReconciler(NewResolver(root), &fakeUpdater{}, nil).DeleteAll(entries)

	assert.True(t, result.AllRemoved())
	assert.Len(t, result.Removals, 2)
	assert.NoDirExists(t, filepath.Join(root, "backend"))
}

func TestDeleteAll_RefusesRootAndOutside(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "proj")
	outside := filepath.Join(parent, "keep")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "backend"), 0755))
	require.NoError(t, os.Mkdir(outside, 0755))

	entries := entriesFor(t, root, "path = .\npath = ../keep\npath = backend\n")
	result := NewReconciler(NewResolver(root), &fakeUpdater{}, nil).DeleteAll(entries)

	assert.False(t, result.AllRemoved(), "one refused target fails the aggregate")
	require.Len(t, result.Removals, 3)
	assert.True(t, errors.Is(result.Removals[0].Err, model.ErrDirectoryRemovalFailed))
	assert.True(t, errors.Is(result.Removals[1].Err, model.ErrDirectoryRemovalFailed))
	assert.NoError(t, result.Removals[2].Err)

	assert.DirExists(t, root)
	assert.DirExists(t, outside)
	assert.NoDirExists(t, filepath.Join(root, "backend"))
}

func TestDeleteAll_Empty(t *testing.T) {
	result := NewReconciler(NewResolver(t.TempDir()), &fakeUpdater{}, nil).DeleteAll(nil)
	assert.True(t, result.AllRemoved())
}
