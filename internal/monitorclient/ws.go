// Package monitorclient is the aura-monitor dev-viewer's connection to the
// daemon's debug introspection endpoint.
package monitorclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/agent-aura/aura/internal/registry"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 15 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// snapshotEnvelope mirrors debugserver.Snapshot without importing it, so
// this client has no dependency on the daemon's internal package layout.
type snapshotEnvelope struct {
	Type     string               `json:"type"`
	Seq      uint64               `json:"seq"`
	Sessions []*registry.Session `json:"sessions"`
}

// Client connects to the debug WebSocket endpoint and turns inbound frames
// into Bubble Tea messages.
type Client struct {
	url  string
	conn *websocket.Conn
}

// NewClient builds a client for the given ws:// URL.
func NewClient(url string) *Client {
	return &Client{url: url}
}

// ConnectedMsg is sent once the WebSocket handshake completes.
type ConnectedMsg struct{}

// DisconnectedMsg is sent when the connection drops.
type DisconnectedMsg struct{ Err error }

// SnapshotMsg delivers the latest full registry snapshot.
type SnapshotMsg struct {
	Sessions []*registry.Session
}

// Listen connects (retrying with backoff) and returns ConnectedMsg once up.
func (c *Client) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
			if err != nil {
				log.Printf("monitor: dial error: %v (retry in %v)", err, delay)
				time.Sleep(delay)
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}
			c.conn = conn
			return ConnectedMsg{}
		}
	}
}

// ReadLoop reads one frame and turns it into a tea.Msg. Call again after
// each message to keep reading.
func (c *Client) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		conn := c.conn
		if conn == nil {
			return DisconnectedMsg{Err: fmt.Errorf("no connection")}
		}
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.conn = nil
			conn.Close()
			return DisconnectedMsg{Err: err}
		}

		var env snapshotEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil
		}
		return SnapshotMsg{Sessions: env.Sessions}
	}
}
