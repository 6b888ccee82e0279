// Package hookparser converts a single Claude Code hook JSON message (read
// from stdin by the short-lived "aura hook" process) into zero or more
// AgentEvents.
package hookparser

import (
	"encoding/json"
	"path/filepath"
	"regexp"

	"github.com/agent-aura/aura/internal/event"
)

// Input mirrors the JSON object Claude Code writes to a hook process's
// stdin. Only the fields the event mapping needs are declared; ToolInput is
// decoded further only for the tools the label-extraction logic names.
// Unknown fields are ignored, never fatal.
type Input struct {
	HookEventName    string          `json:"hook_event_name"`
	SessionID        string          `json:"session_id"`
	Cwd              string          `json:"cwd"`
	ToolName         string          `json:"tool_name"`
	ToolUseID        string          `json:"tool_use_id"`
	ToolInput        json.RawMessage `json:"tool_input"`
	NotificationType string          `json:"notification_type"`
	Message          string          `json:"message"`
}

// setNameCommand matches the `aura set-name "<n>"` shell invocation embedded
// in a Bash tool_input command.
var setNameCommand = regexp.MustCompile(`^\s*aura\s+set-name\s+"(.+)"\s*$`)

// Parse decodes a single hook JSON message and maps it to zero or more
// AgentEvents. A JSON decode failure is the only error it returns; every
// successfully decoded message produces a definite (possibly empty)
// sequence of events, never a panic.
func Parse(data []byte) ([]event.AgentEvent, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return ParseInput(in), nil
}

// ParseInput maps an already-decoded Input to its AgentEvents. A missing
// session_id drops the entire hook.
func ParseInput(in Input) []event.AgentEvent {
	if in.SessionID == "" {
		return nil
	}

	base := func(kind event.Kind) event.AgentEvent {
		return event.New(kind, in.SessionID, event.ClaudeCode)
	}

	switch in.HookEventName {
	case "SessionStart":
		ev := base(event.SessionStarted)
		ev.Cwd = in.Cwd
		return []event.AgentEvent{ev}

	case "PreToolUse":
		started := base(event.ToolStarted)
		started.ToolID = in.ToolUseID
		started.ToolName = in.ToolName
		started.ToolLabel = extractToolLabel(in.ToolName, in.ToolInput)
		out := []event.AgentEvent{started}

		if in.ToolName == "Bash" {
			if name, ok := setNameFromInput(in.ToolInput); ok {
				named := base(event.SessionNameUpdated)
				named.Name = name
				out = append(out, named)
			}
		}
		return out

	case "PostToolUse", "PostToolUseFailure":
		ev := base(event.ToolCompleted)
		ev.ToolID = in.ToolUseID
		return []event.AgentEvent{ev}

	case "Notification":
		switch in.NotificationType {
		case "permission_prompt":
			ev := base(event.NeedsAttention)
			ev.Message = in.ToolName
			return []event.AgentEvent{ev}
		case "idle_prompt":
			return []event.AgentEvent{base(event.WaitingForInput)}
		default:
			ev := base(event.NeedsAttention)
			ev.Message = in.Message
			return []event.AgentEvent{ev}
		}

	case "PermissionRequest":
		ev := base(event.NeedsAttention)
		ev.Message = in.ToolName
		return []event.AgentEvent{ev}

	case "Stop":
		return []event.AgentEvent{base(event.Idle)}

	case "PreCompact":
		return []event.AgentEvent{base(event.Compacting)}

	case "UserPromptSubmit", "SubagentStart", "SubagentStop":
		return []event.AgentEvent{base(event.Activity)}

	case "SessionEnd":
		return []event.AgentEvent{base(event.SessionEnded)}

	default:
		return nil
	}
}

// setNameFromInput extracts the captured name from a Bash tool_input whose
// command matches the aura set-name pattern.
func setNameFromInput(raw json.RawMessage) (string, bool) {
	var in struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return "", false
	}
	m := setNameCommand.FindStringSubmatch(in.Command)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractToolLabel derives tool_label from tool_input using a per-tool
// preference order. MCP tool names (mcp__server__function) are deliberately
// left unhandled here: DisplayTool is the single place that formats
// "server: label", so this only ever returns the raw per-tool field. The
// choice of field depends on toolName alone, so an MCP call always yields an
// empty label.
func extractToolLabel(toolName string, raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)

	str := func(key string) (string, bool) {
		v, ok := fields[key]
		if !ok {
			return "", false
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}

	var label string
	switch toolName {
	case "Bash":
		if v, ok := str("description"); ok && v != "" {
			label = v
		} else if v, ok := str("command"); ok {
			label = v
		}
	case "Read", "Write", "Edit":
		if v, ok := str("file_path"); ok {
			label = filepath.Base(v)
		}
	case "NotebookEdit":
		if v, ok := str("notebook_path"); ok {
			label = filepath.Base(v)
		}
	case "Glob", "Grep":
		if v, ok := str("pattern"); ok {
			label = v
		}
	case "WebFetch":
		if v, ok := str("url"); ok {
			label = v
		}
	case "WebSearch":
		if v, ok := str("query"); ok {
			label = v
		}
	case "Task":
		if v, ok := str("description"); ok {
			label = v
		}
	case "Skill":
		if v, ok := str("skill"); ok {
			label = v
		}
	}

	return label
}
