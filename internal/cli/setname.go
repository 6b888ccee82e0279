package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSetNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-name <name>",
		Short: "Set the display name for the current session",
		Long: `set-name is a stub: running it does nothing by itself. The name actually
flows into Aura when the agent's own Bash tool call is observed by the hook
parser, which recognizes this exact command line. Running it here just
confirms the name to the person typing it.`,
		Args: cobra.ExactArgs(1),
		RunE: runSetName,
	}
}

func runSetName(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "session name set to %q\n", args[0])
	return nil
}
