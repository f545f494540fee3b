// Package cli: init.go implements the "polyrepo init" command family.
//
//	polyrepo init             initialize missing submodules
//	polyrepo init new         same as init
//	polyrepo init rebuild     delete every submodule, then initialize
//	polyrepo init clean       delete every submodule
//	polyrepo init help        print this command's help
//
// rebuild and clean prompt for confirmation unless -y is given.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/polyrepo/internal/lifecycle"
)

// destructiveFlags holds the flag values shared by rebuild and clean.
type destructiveFlags struct {
	// yes skips the confirmation prompt when true.
	yes bool
}

// NewInitCommand creates the "init" cobra command and its subcommands.
func NewInitCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [new|rebuild|clean|help]",
		Short: "Initialize the project's submodules",
		Long: `Initialize every submodule declared in the submodules file that is
missing on disk, by running "git submodule update --init --recursive" in
the project root.

Each declared submodule is printed as "<absolute path> - <declared path> - <exists>".

Examples:
  polyrepo init
  polyrepo init rebuild -y
  polyrepo init clean`,

		// Anything other than a known subcommand is ignored, except
		// "help", which prints this command's usage.
		Args:        cobra.ArbitraryArgs,
		Annotations: map[string]string{annotationNeedsConfig: "true"},

		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelpRequest(args) {
				return cmd.Help()
			}
			return runInit(cmd, a)
		},
	}

	cmd.AddCommand(newInitNewCommand(a))
	cmd.AddCommand(newRebuildCommand(a))
	cmd.AddCommand(newCleanCommand(a))

	return cmd
}

func newInitNewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "new",
		Short:       "Initialize missing submodules of an existing project (same as init)",
		Args:        cobra.ArbitraryArgs,
		Annotations: map[string]string{annotationNeedsConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, a)
		},
	}
}

func newRebuildCommand(a *app) *cobra.Command {
	flags := &destructiveFlags{}

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Delete every submodule directory and initialize them again",
		Long: `Delete the directory of every declared submodule, then initialize them
again from their remotes. Local changes inside the submodules are lost.

Unless -y is specified, the command prompts for confirmation.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNeedsConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd, flags.yes)
			report, err := c.Rebuild(cmd.Context(), flags.yes)
			if err != nil {
				return err
			}
			return a.printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, flagYes, "y", false, "Rebuild without confirmation")
	return cmd
}

func newCleanCommand(a *app) *cobra.Command {
	flags := &destructiveFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every submodule directory",
		Long: `Delete the directory of every declared submodule. The submodules file
and the rest of the project are left untouched.

Unless -y is specified, the command prompts for confirmation.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNeedsConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd, flags.yes)
			report, err := c.Clean(cmd.Context(), flags.yes)
			if err != nil {
				return err
			}
			return a.printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, flagYes, "y", false, "Clean without confirmation")
	return cmd
}

func runInit(cmd *cobra.Command, a *app) error {
	report, err := a.controller(cmd, false).Init(cmd.Context())
	if err != nil {
		return err
	}
	return a.printReport(cmd.OutOrStdout(), report)
}

// controller builds the lifecycle controller for this invocation.
func (a *app) controller(cmd *cobra.Command, assumeYes bool) *lifecycle.Controller {
	return lifecycle.New(a.config, lifecycle.Options{
		Updater:   a.gitUpdater(),
		Confirmer: a.confirmer(cmd, assumeYes),
		Out:       cmd.OutOrStdout(),
		Logger:    a.logger,
	})
}
