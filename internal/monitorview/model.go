// Package monitorview is the Bubble Tea model shared by the aura-monitor
// dev-viewer binary and the aura monitor subcommand.
package monitorview

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agent-aura/aura/internal/monitorclient"
	"github.com/agent-aura/aura/internal/registry"
	"github.com/agent-aura/aura/internal/view"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleDimmed  = lipgloss.NewStyle().Faint(true)
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleAttn    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	styleWaiting = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleStale   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// tickMsg drives the periodic re-render needed for tool-label cycling, even
// when no new snapshot has arrived.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root Bubble Tea model.
type Model struct {
	ws     *monitorclient.Client
	ctx    context.Context
	cancel context.CancelFunc
	keys   keyMap

	width, height int
	connected     bool
	sessions      []*registry.Session
}

// New builds a Model that talks to the daemon's debug server through ws.
func New(ws *monitorclient.Client) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{ws: ws, ctx: ctx, cancel: cancel, keys: defaultKeyMap()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ws.Listen(m.ctx), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case monitorclient.ConnectedMsg:
		m.connected = true
		return m, m.ws.ReadLoop(m.ctx)

	case monitorclient.DisconnectedMsg:
		m.connected = false
		return m, m.ws.Listen(m.ctx)

	case monitorclient.SnapshotMsg:
		m.sessions = msg.Sessions
		return m, m.ws.ReadLoop(m.ctx)

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if !m.connected {
		return styleDimmed.Render("connecting to aura daemon...\n") + styleDimmed.Render("press q to quit")
	}

	sessions := append([]*registry.Session(nil), m.sessions...)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].SessionID < sessions[j].SessionID })

	lines := []string{styleHeader.Render("AURA — active sessions"), ""}
	if len(sessions) == 0 {
		lines = append(lines, styleDimmed.Render("  no sessions"))
	}
	now := time.Now()
	for _, s := range sessions {
		row := view.Project(s, now)
		lines = append(lines, "  "+stateGlyph(s.State)+" "+styleTitle.Render(row.Title)+"  "+styleDimmed.Render(row.Subtitle))
	}
	lines = append(lines, "", styleDimmed.Render(m.keys.Quit.Help().Key+": "+m.keys.Quit.Help().Desc))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func stateGlyph(s registry.State) string {
	switch s {
	case registry.Running:
		return styleRunning.Render("●")
	case registry.Idle:
		return styleIdle.Render("○")
	case registry.Attention:
		return styleAttn.Render("!")
	case registry.Waiting:
		return styleWaiting.Render("◌")
	case registry.Compacting:
		return styleDimmed.Render("»")
	case registry.Stale:
		return styleStale.Render("·")
	default:
		return "?"
	}
}
