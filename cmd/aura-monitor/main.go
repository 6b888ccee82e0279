// Command aura-monitor is a terminal dev-viewer for the Aura daemon's debug
// introspection endpoint. It is not part of the core product surface — it
// exists for developers watching the registry update live.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agent-aura/aura/internal/monitorclient"
	"github.com/agent-aura/aura/internal/monitorview"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:47291/ws", "WebSocket URL of the Aura daemon's debug server")
	flag.Parse()

	ws := monitorclient.NewClient(*url)
	m := monitorview.New(ws)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
