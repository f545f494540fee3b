package submodule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// SubmoduleUpdater materializes every submodule registered in a
// repository. *git.Client satisfies it.
type SubmoduleUpdater interface {
	SubmoduleUpdate(ctx context.Context, projectRoot string) error
}

// Attempt records one update invocation made for a missing entry.
type Attempt struct {
	Entry model.SubmoduleEntry
	Err   error
}

// ReconcileResult summarizes a Reconcile sweep.
type ReconcileResult struct {
	// AnyMissing is true iff at least one entry did not exist when the
	// sweep started, whether or not the update succeeded.
	AnyMissing bool

	// Attempts lists one element per missing entry, in entry order.
	Attempts []Attempt
}

// Failed returns the attempts whose update returned an error.
func (r ReconcileResult) Failed() []Attempt {
	var failed []Attempt
	for _, a := range r.Attempts {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// Removal records the outcome of deleting one entry's directory.
type Removal struct {
	Entry model.SubmoduleEntry
	Err   error
}

// DeleteResult summarizes a DeleteAll sweep.
type DeleteResult struct {
	Removals []Removal
}

// AllRemoved reports whether every entry was removed. An empty sweep
// counts as success.
func (r DeleteResult) AllRemoved() bool {
	for _, rm := range r.Removals {
		if rm.Err != nil {
			return false
		}
	}
	return true
}

// Reconciler brings the working tree in line with the declared
// submodules.
type Reconciler struct {
	resolver *Resolver
	updater  SubmoduleUpdater
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler. A nil logger discards output.
func NewReconciler(resolver *Resolver, updater SubmoduleUpdater, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{resolver: resolver, updater: updater, logger: logger}
}

// Reconcile invokes the updater once for every entry that does not
// exist, in order.
//
// The update command is repository-wide, so the first success usually
// materializes the later entries too. Existence flags are not re-probed
// between iterations and the command is still issued once per missing
// entry. Failures are logged and recorded, never returned; the sweep
// always runs to the end.
func (r *Reconciler) Reconcile(ctx context.Context, entries []model.SubmoduleEntry) ReconcileResult {
	var result ReconcileResult

	for _, e := range entries {
		if e.Exists {
			continue
		}
		result.AnyMissing = true

		r.logger.Debug("initializing submodule", "path", e.DeclaredPath)
		err := r.updater.SubmoduleUpdate(ctx, r.resolver.Root())
		if err != nil {
			r.logger.Error("submodule update failed", "path", e.DeclaredPath, "error", err)
		}
		result.Attempts = append(result.Attempts, Attempt{Entry: e, Err: err})
	}

	return result
}

// DeleteAll recursively removes the directory of every entry.
//
// A target that is the project root, or that lies outside it, is refused
// with model.ErrDirectoryRemovalFailed. A target that does not exist
// counts as removed. Failures are logged and recorded per entry.
func (r *Reconciler) DeleteAll(entries []model.SubmoduleEntry) DeleteResult {
	var result DeleteResult

	for _, e := range entries {
		err := r.remove(e)
		if err != nil {
			r.logger.Error("failed to remove submodule", "path", e.DeclaredPath, "error", err)
		} else {
			r.logger.Debug("removed submodule", "path", e.DeclaredPath)
		}
		result.Removals = append(result.Removals, Removal{Entry: e, Err: err})
	}

	return result
}

func (r *Reconciler) remove(e model.SubmoduleEntry) error {
	target := e.AbsolutePath
	if target == "" {
		target = r.resolver.Resolve(e.DeclaredPath)
	}

	if !r.resolver.Within(target) {
		return fmt.Errorf("%w: %s is not inside project root %s",
			model.ErrDirectoryRemovalFailed, target, r.resolver.Root())
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrDirectoryRemovalFailed, target, err)
	}
	return nil
}
