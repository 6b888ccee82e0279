package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agent-aura/aura/internal/monitorclient"
	"github.com/agent-aura/aura/internal/monitorview"
)

var monitorURL string

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Launch a terminal dev-viewer against the daemon's debug endpoint",
		Long: `monitor requires the daemon to be running with debug_server.enabled: true
in its config. It is a development aid, not part of the HUD itself.`,
		RunE: runMonitor,
	}
	cmd.Flags().StringVar(&monitorURL, "url", "", "WebSocket URL of the daemon's debug server (defaults to the configured debug_server host:port)")
	return cmd
}

func runMonitor(cmd *cobra.Command, args []string) error {
	url := monitorURL
	if url == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.DebugServer.Enabled {
			return fmt.Errorf("debug_server is disabled in config; enable it or pass --url")
		}
		url = fmt.Sprintf("ws://%s:%d/ws", cfg.DebugServer.Host, cfg.DebugServer.Port)
	}

	ws := monitorclient.NewClient(url)
	program := tea.NewProgram(monitorview.New(ws), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
