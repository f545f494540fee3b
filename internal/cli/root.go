// Package cli implements the cobra-based CLI commands for polyrepo.
//
// Each top-level command (init and the placeholders up, down, watch,
// status) is defined in its own file within this package. This file
// defines the root command, the global flags and the per-invocation
// state that subcommands share.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shinji-kodama/polyrepo/internal/config"
	"github.com/shinji-kodama/polyrepo/internal/git"
	"github.com/shinji-kodama/polyrepo/internal/logging"
	"github.com/shinji-kodama/polyrepo/internal/model"
	"github.com/shinji-kodama/polyrepo/internal/prompt"
	"github.com/shinji-kodama/polyrepo/internal/submodule"
)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Flag names that are not runtime options.
const (
	flagJSON    = "json"
	flagVersion = "version"
	flagYes     = "yes"
)

// annotationNeedsConfig marks commands that require the project config
// loaded before RunE.
const annotationNeedsConfig = "polyrepo/needs-config"

// app is the state of one CLI invocation. It is created by
// NewRootCommand and shared by every subcommand through closures.
type app struct {
	viper *viper.Viper

	// workDir is where the config file is looked up. Empty means the
	// process working directory.
	workDir string

	// stdin is the confirmation input stream.
	stdin *os.File

	// updater runs git; nil selects git.NewClient().
	updater submodule.SubmoduleUpdater

	opts       config.Options
	jsonOutput bool
	logger     *slog.Logger
	config     *model.ProjectConfig
}

func newApp() *app {
	return &app{viper: config.NewViper(), stdin: os.Stdin, logger: logging.Discard()}
}

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "polyrepo",
		Short: "Manage a project composed of git submodules",
		Long: `polyrepo keeps a multi-repository project in a known state.

The project config (config.yaml in the working directory) names the
submodules file, normally .gitmodules. polyrepo compares the submodules
declared there with what exists on disk and initializes or deletes them.`,

		// Unknown commands fall through to RunE, which prints help.
		Args: cobra.ArbitraryArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			if cmd.Annotations[annotationNeedsConfig] == "true" && !isHelpRequest(args) {
				return a.loadConfig()
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return a.printVersion(cmd.OutOrStdout())
			}
			if len(args) > 0 {
				a.logger.Debug("unknown command", "command", args[0])
			}
			return cmd.Help()
		},
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().String(config.KeyConfig, config.DefaultFileName, "Project config file (env POLYREPO_CONFIG)")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn, error (env POLYREPO_LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool(flagJSON, false, "Output in JSON format")

	// -v is the version flag, so cobra's automatic --version is not used.
	rootCmd.Flags().BoolVarP(&showVersion, flagVersion, "v", false, "Print the tool version and the project version")

	rootCmd.AddCommand(NewInitCommand(a))
	for _, p := range placeholderCommands {
		rootCmd.AddCommand(newPlaceholderCommand(p))
	}

	return rootCmd
}

// isHelpRequest reports whether args ask a command for its own help, as
// in "polyrepo init help".
func isHelpRequest(args []string) bool {
	return len(args) > 0 && args[0] == "help"
}

// setup resolves the runtime options and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.viper, cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	opts, err := config.LoadOptions(a.viper)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid options", err)
	}
	a.opts = opts
	a.jsonOutput, _ = cmd.Flags().GetBool(flagJSON)

	logger, err := logging.New(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid options", err)
	}
	a.logger = logger
	return nil
}

// loadConfig reads the project config once per invocation.
func (a *app) loadConfig() error {
	if a.config != nil {
		return nil
	}

	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "cannot determine working directory", err)
		}
		dir = wd
	}

	store := config.NewStore(dir, a.opts.ConfigFile, a.logger)
	cfg, err := store.Load()
	if err != nil {
		return model.WrapCLIError(model.ExitCodeFor(err), "cannot load project config", err)
	}
	a.logger.Debug("loaded project config", "path", store.Path(), "project_path", cfg.ProjectPath)
	a.config = cfg
	return nil
}

func (a *app) gitUpdater() submodule.SubmoduleUpdater {
	if a.updater != nil {
		return a.updater
	}
	return git.NewClient()
}

// confirmer returns the confirmer for an interactive run, or AssumeYes
// when the user passed -y.
func (a *app) confirmer(cmd *cobra.Command, assumeYes bool) prompt.Confirmer {
	if assumeYes {
		return prompt.AssumeYes
	}
	return prompt.New(a.stdin, cmd.OutOrStdout())
}

func (a *app) printVersion(w io.Writer) error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	if a.jsonOutput {
		return writeJSON(w, map[string]string{
			"version":        Version,
			"commit":         Commit,
			"date":           Date,
			"projectName":    a.config.ProjectName,
			"projectVersion": a.config.ProjectVersion,
		})
	}

	fmt.Fprintf(w, "polyrepo %s (commit: %s, built: %s)\n", Version, Commit, Date)
	fmt.Fprintf(w, "%s %s\n", a.config.ProjectName, a.config.ProjectVersion)
	return nil
}

// Execute runs the root command and exits the process with the mapped
// exit code. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(int(Run(rootCmd)))
}

// Run executes rootCmd and translates a returned error into an exit
// code, printing it to the command's error stream.
//
// CLIError values carry their own exit codes; other errors are mapped
// through model.ExitCodeFor.
func Run(rootCmd *cobra.Command) model.ExitCode {
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}

	jsonMode, _ := rootCmd.PersistentFlags().GetBool(flagJSON)
	printError(rootCmd.ErrOrStderr(), jsonMode, err)
	return model.ExitCodeFor(err)
}

// printError outputs an error message in the appropriate format
// (JSON or text).
func printError(w io.Writer, jsonMode bool, err error) {
	message, detail := err.Error(), ""
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		if cliErr.Err != nil {
			detail = cliErr.Err.Error()
		}
	}

	if jsonMode {
		errObj := map[string]interface{}{"message": message}
		if detail != "" {
			errObj["detail"] = detail
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// command output.
		_ = writeJSON(w, map[string]interface{}{"error": errObj})
		return
	}

	if detail != "" {
		fmt.Fprintf(w, "Error: %s: %s\n", message, detail)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
