package debugserver

import (
	"github.com/agent-aura/aura/internal/procwatch"
	"github.com/agent-aura/aura/internal/registry"
)

// Message types pushed over the debug WebSocket.
const (
	MsgSnapshot = "snapshot"
)

// Snapshot is the full registry snapshot pushed on connect and on every
// subsequent throttled tick. ProcessActivity is sampled independently of the
// registry (keyed by working directory) and is debug-only: nothing in the
// registry's own state machine ever reads it.
type Snapshot struct {
	Type            string                        `json:"type"`
	Seq             uint64                        `json:"seq"`
	Sessions        []*registry.Session           `json:"sessions"`
	ProcessActivity map[string]procwatch.Activity `json:"process_activity,omitempty"`
}
