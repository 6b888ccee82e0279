// Package event defines the closed set of normalized events that flow from
// the Claude Code hook parser and the Codex rollout watcher into the session
// registry.
package event

import "encoding/json"

// Kind discriminates an AgentEvent variant.
type Kind int

const (
	SessionStarted Kind = iota
	ToolStarted
	ToolCompleted
	Activity
	Idle
	NeedsAttention
	WaitingForInput
	Compacting
	SessionNameUpdated
	SessionEnded
)

var kindNames = map[Kind]string{
	SessionStarted:     "session_started",
	ToolStarted:        "tool_started",
	ToolCompleted:      "tool_completed",
	Activity:           "activity",
	Idle:               "idle",
	NeedsAttention:     "needs_attention",
	WaitingForInput:    "waiting_for_input",
	Compacting:         "compacting",
	SessionNameUpdated: "session_name_updated",
	SessionEnded:       "session_ended",
}

var kindFromName = map[string]Kind{
	"session_started":      SessionStarted,
	"tool_started":         ToolStarted,
	"tool_completed":       ToolCompleted,
	"activity":             Activity,
	"idle":                 Idle,
	"needs_attention":      NeedsAttention,
	"waiting_for_input":    WaitingForInput,
	"compacting":           Compacting,
	"session_name_updated": SessionNameUpdated,
	"session_ended":        SessionEnded,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := kindFromName[s]
	if !ok {
		return &UnknownKindError{Name: s}
	}
	*k = v
	return nil
}

// UnknownKindError is returned by Kind.UnmarshalJSON for a type string that
// is not one of the closed variants. Callers treat it as "ignore this frame",
// never as fatal.
type UnknownKindError struct{ Name string }

func (e *UnknownKindError) Error() string { return "event: unknown kind " + e.Name }

// AgentKind identifies which adapter produced an event.
type AgentKind int

const (
	ClaudeCode AgentKind = iota
	Codex
)

var agentKindNames = map[AgentKind]string{
	ClaudeCode: "claude_code",
	Codex:      "codex",
}

var agentKindFromName = map[string]AgentKind{
	"claude_code": ClaudeCode,
	"codex":       Codex,
}

func (a AgentKind) String() string {
	if s, ok := agentKindNames[a]; ok {
		return s
	}
	return "unknown"
}

func (a AgentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AgentKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := agentKindFromName[s]; ok {
		*a = v
	}
	return nil
}

// AgentEvent is the single closed sum type that drives the registry. Every
// variant carries SessionID and AgentKind; the remaining fields are
// populated according to Kind, as the field-group comments below indicate.
// Fields unused by a given Kind are left zero and ignored by consumers.
type AgentEvent struct {
	Kind      Kind      `json:"type"`
	SessionID string    `json:"session_id"`
	AgentKind AgentKind `json:"agent_kind"`

	// SessionStarted
	Cwd  string `json:"cwd,omitempty"`
	Name string `json:"name,omitempty"`

	// ToolStarted / ToolCompleted
	ToolID    string `json:"tool_id,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	ToolLabel string `json:"tool_label,omitempty"`

	// NeedsAttention
	Message string `json:"message,omitempty"`
}

// New builds an AgentEvent of the given kind for a session, with no payload
// fields set. Callers set the relevant fields directly afterward; this
// constructor exists only to make the SessionID/AgentKind pairing mandatory.
func New(kind Kind, sessionID string, agentKind AgentKind) AgentEvent {
	return AgentEvent{Kind: kind, SessionID: sessionID, AgentKind: agentKind}
}
