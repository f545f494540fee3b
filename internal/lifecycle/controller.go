// Package lifecycle implements the init, rebuild and clean flows on top of
// the submodule inventory and reconciler.
//
// A project moves between three states, derived from which declared
// submodule directories exist:
//
//	uninitialized  --init-->  initialized
//	partially-initialized  --init-->  initialized
//	any  --clean-->  uninitialized
//	any  --rebuild-->  initialized
//
// Rebuild and clean are destructive and ask for confirmation unless
// forced. A declined confirmation leaves the filesystem untouched and is
// not an error.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shinji-kodama/polyrepo/internal/model"
	"github.com/shinji-kodama/polyrepo/internal/prompt"
	"github.com/shinji-kodama/polyrepo/internal/submodule"
)

// Operation names the flow that produced a Report.
type Operation string

const (
	OperationInit    Operation = "init"
	OperationRebuild Operation = "rebuild"
	OperationClean   Operation = "clean"
)

// Report describes what an operation observed and did.
type Report struct {
	Operation Operation

	// Entries is the inventory as listed when the operation started.
	Entries []model.SubmoduleEntry

	// Before and After are the project states around the operation.
	// After equals Before when the operation was declined.
	Before model.ProjectState
	After  model.ProjectState

	// Reconcile is set when submodules were initialized.
	Reconcile *submodule.ReconcileResult

	// Delete is set when submodule directories were removed.
	Delete *submodule.DeleteResult

	// Declined is true when the user answered no to the confirmation.
	Declined bool
}

// Options configures a Controller.
type Options struct {
	// Updater runs the git submodule update. Required.
	Updater submodule.SubmoduleUpdater

	// Confirmer asks before destructive operations. Nil declines every
	// question.
	Confirmer prompt.Confirmer

	// Out receives the preview shown before a confirmation.
	Out io.Writer

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Controller runs lifecycle operations for one project.
type Controller struct {
	inventory  *submodule.Inventory
	reconciler *submodule.Reconciler
	confirmer  prompt.Confirmer
	out        io.Writer
	logger     *slog.Logger
}

// New creates a Controller for the project described by cfg.
func New(cfg *model.ProjectConfig, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = prompt.Static{Answer: false}
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	inventory := submodule.NewInventoryFromConfig(cfg)
	return &Controller{
		inventory:  inventory,
		reconciler: submodule.NewReconciler(inventory.Resolver(), opts.Updater, logger),
		confirmer:  confirmer,
		out:        out,
		logger:     logger,
	}
}

// Init initializes every missing submodule.
func (c *Controller) Init(ctx context.Context) (*Report, error) {
	entries, err := c.list()
	if err != nil {
		return nil, err
	}

	report := &Report{Operation: OperationInit, Entries: entries, Before: model.StateOf(entries)}
	if err := c.initialize(ctx, report, entries); err != nil {
		return nil, err
	}
	return report, nil
}

// Rebuild deletes every declared submodule directory and initializes
// them again. Unless force is set the user is asked first.
func (c *Controller) Rebuild(ctx context.Context, force bool) (*Report, error) {
	report, proceed, err := c.prepareDestructive(ctx, OperationRebuild, force,
		"Delete and re-initialize these submodules?")
	if err != nil || !proceed {
		return report, err
	}

	deleted := c.reconciler.DeleteAll(report.Entries)
	report.Delete = &deleted

	// Re-list so reconcile sees the post-delete filesystem.
	entries, err := c.list()
	if err != nil {
		return nil, err
	}
	if err := c.initialize(ctx, report, entries); err != nil {
		return nil, err
	}
	return report, nil
}

// Clean deletes every declared submodule directory. Unless force is set
// the user is asked first.
func (c *Controller) Clean(ctx context.Context, force bool) (*Report, error) {
	report, proceed, err := c.prepareDestructive(ctx, OperationClean, force,
		"Delete these submodules?")
	if err != nil || !proceed {
		return report, err
	}

	deleted := c.reconciler.DeleteAll(report.Entries)
	report.Delete = &deleted

	after, err := c.list()
	if err != nil {
		return nil, err
	}
	report.After = model.StateOf(after)
	return report, nil
}

// prepareDestructive lists the inventory and asks for confirmation.
// proceed is false when the user declined; the returned report is then
// final.
func (c *Controller) prepareDestructive(ctx context.Context, op Operation, force bool, question string) (*Report, bool, error) {
	entries, err := c.list()
	if err != nil {
		return nil, false, err
	}

	state := model.StateOf(entries)
	report := &Report{Operation: op, Entries: entries, Before: state, After: state}

	if force {
		return report, true, nil
	}

	c.printPreview(entries)
	confirmed, err := c.confirmer.Confirm(ctx, question)
	if err != nil {
		return nil, false, model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
	}
	if !confirmed {
		c.logger.Info("operation cancelled by user", "operation", string(op))
		report.Declined = true
		return report, false, nil
	}
	return report, true, nil
}

// initialize reconciles entries and records the result and final state
// on report.
func (c *Controller) initialize(ctx context.Context, report *Report, entries []model.SubmoduleEntry) error {
	result := c.reconciler.Reconcile(ctx, entries)
	report.Reconcile = &result

	after, err := c.list()
	if err != nil {
		return err
	}
	report.After = model.StateOf(after)
	return nil
}

func (c *Controller) list() ([]model.SubmoduleEntry, error) {
	entries, err := c.inventory.List()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitSubmodulesFileMissing,
			fmt.Sprintf("cannot read submodules file %s", c.inventory.Path()), err)
	}
	c.logger.Debug("listed submodules", "file", c.inventory.Path(), "count", len(entries))
	return entries, nil
}

func (c *Controller) printPreview(entries []model.SubmoduleEntry) {
	fmt.Fprintf(c.out, "The following %d submodule director%s will be deleted:\n",
		len(entries), plural(len(entries), "y", "ies"))
	for _, e := range entries {
		marker := "missing"
		if e.Exists {
			marker = "present"
		}
		fmt.Fprintf(c.out, "  - %s (%s)\n", e.AbsolutePath, marker)
	}
	fmt.Fprintln(c.out)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
