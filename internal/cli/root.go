// Package cli assembles the aura command-line tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/agent-aura/aura/internal/config"
	"github.com/agent-aura/aura/internal/logging"
)

var (
	verboseCount int
	configPath   string
)

// NewRootCmd builds the aura root command and its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aura",
		Short:         "Ambient situational awareness for concurrent AI coding agent sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
		// Bare `aura` with no subcommand is an alias for `aura daemon`.
		RunE: runDaemon,
	}

	root.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to "+config.DefaultConfigPath()+")")

	root.AddCommand(newDaemonCmd())
	root.AddCommand(newHookCmd())
	root.AddCommand(newSetNameCmd())
	root.AddCommand(newHookInstallCmd())
	root.AddCommand(newMonitorCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadOrDefault(path)
}

func newLogger() *logging.Logger {
	return logging.New(logging.LevelFromVerbosity(verboseCount))
}
