// Package cli: placeholders.go registers the commands that are reserved
// but do nothing yet. Each prints a notice and the arguments it received,
// and succeeds.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// placeholder describes one reserved command.
type placeholder struct {
	use   string
	short string
}

var placeholderCommands = []placeholder{
	{use: "up", short: "Start the project (not implemented yet)"},
	{use: "down", short: "Stop the project (not implemented yet)"},
	{use: "watch", short: "Start the project and watch for changes (not implemented yet)"},
	{use: "status", short: "Print the status of the project (not implemented yet)"},
}

// NotImplementedMessage is printed by every placeholder command.
const NotImplementedMessage = "Not implemented yet"

func newPlaceholderCommand(p placeholder) *cobra.Command {
	return &cobra.Command{
		Use:   p.use + " [args...]",
		Short: p.short,

		// Arguments are echoed verbatim, flags included.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, NotImplementedMessage)
			fmt.Fprintf(out, "%q\n", args)
			return nil
		},
	}
}
