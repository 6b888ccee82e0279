package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-aura/aura/internal/event"
	"github.com/agent-aura/aura/internal/hookparser"
	"github.com/agent-aura/aura/internal/ipc"
)

var hookAgent string

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Read a Claude Code hook payload from stdin and forward it to the daemon",
		RunE:  runHook,
	}
	cmd.Flags().StringVar(&hookAgent, "agent", "claude-code", "agent emitting this hook (only claude-code is supported)")
	return cmd
}

// runHook exits non-zero only on a malformed stdin payload. Every other
// failure — including the daemon being unreachable — is logged to stderr
// and swallowed, since a hook command that fails the agent's own tool call
// would break the user's session.
func runHook(cmd *cobra.Command, args []string) error {
	log := newLogger()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Warnf("hook: reading stdin: %v", err)
		return nil
	}

	events, err := hookparser.Parse(data)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Warnf("hook: loading config: %v", err)
		return nil
	}

	setAgentKind(events, hookAgent)

	client := ipc.NewClient(cfg.SocketPath)
	if err := client.SendEvents(events); err != nil {
		log.Warnf("hook: daemon unreachable: %v", err)
	}
	return nil
}

func setAgentKind(events []event.AgentEvent, agent string) {
	kind := event.ClaudeCode
	if agent == "codex" {
		kind = event.Codex
	}
	for i := range events {
		events[i].AgentKind = kind
	}
}
