package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHookInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook-install",
		Short: "Print the Claude Code hooks config block to wire Aura in",
		RunE:  runHookInstall,
	}
}

// hookEvents is every Claude Code hook event the parser understands.
var hookEvents = []string{
	"SessionStart",
	"PreToolUse",
	"PostToolUse",
	"PostToolUseFailure",
	"Notification",
	"PermissionRequest",
	"Stop",
	"PreCompact",
	"UserPromptSubmit",
	"SubagentStart",
	"SubagentStop",
	"SessionEnd",
}

type hookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type hookMatcher struct {
	Hooks []hookEntry `json:"hooks"`
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	hooks := make(map[string][]hookMatcher, len(hookEvents))
	for _, name := range hookEvents {
		hooks[name] = []hookMatcher{{
			Hooks: []hookEntry{{Type: "command", Command: "aura hook --agent claude-code"}},
		}}
	}

	block := map[string]any{"hooks": hooks}
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Add the following to your Claude Code settings file (e.g. ~/.claude/settings.json):")
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
