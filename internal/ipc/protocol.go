package ipc

import "github.com/agent-aura/aura/internal/event"

// Frame is one line-delimited JSON message exchanged over the socket
// protocol: either {"msg":"ping"}, {"msg":"pong"}, or an "event" frame whose
// remaining fields decode into an AgentEvent.
type Frame struct {
	Msg string `json:"msg"`

	Type      event.Kind      `json:"type,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	AgentKind event.AgentKind `json:"agent_kind,omitempty"`
	Cwd       string          `json:"cwd,omitempty"`
	Name      string          `json:"name,omitempty"`
	ToolID    string          `json:"tool_id,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolLabel string          `json:"tool_label,omitempty"`
	Message   string          `json:"message,omitempty"`
}

const (
	msgPing  = "ping"
	msgPong  = "pong"
	msgEvent = "event"
)

// ToAgentEvent converts an "event" frame into an event.AgentEvent. Callers
// must check Msg == "event" first.
func (f Frame) ToAgentEvent() event.AgentEvent {
	return event.AgentEvent{
		Kind:      f.Type,
		SessionID: f.SessionID,
		AgentKind: f.AgentKind,
		Cwd:       f.Cwd,
		Name:      f.Name,
		ToolID:    f.ToolID,
		ToolName:  f.ToolName,
		ToolLabel: f.ToolLabel,
		Message:   f.Message,
	}
}

// FrameFromAgentEvent builds the wire frame a client sends for ev.
func FrameFromAgentEvent(ev event.AgentEvent) Frame {
	return Frame{
		Msg:       msgEvent,
		Type:      ev.Kind,
		SessionID: ev.SessionID,
		AgentKind: ev.AgentKind,
		Cwd:       ev.Cwd,
		Name:      ev.Name,
		ToolID:    ev.ToolID,
		ToolName:  ev.ToolName,
		ToolLabel: ev.ToolLabel,
		Message:   ev.Message,
	}
}
