package codexwatch

import (
	"encoding/json"
	"regexp"

	"github.com/agent-aura/aura/internal/event"
)

// lineEnvelope is the shape of every rollout JSONL line: a type
// discriminator plus an opaque payload.
type lineEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type sessionMetaPayload struct {
	ID  string `json:"id"`
	Cwd string `json:"cwd"`
}

type responseItemPayload struct {
	Type      string          `json:"type"` // "function_call" | "function_call_output"
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type eventMsgPayload struct {
	Type    string `json:"type"`
	Preview string `json:"preview"`
}

// setNameCommand mirrors the hook parser's aura set-name pattern, applied to
// the best-effort command extracted from a function_call's arguments.
var setNameCommand = regexp.MustCompile(`^\s*aura\s+set-name\s+"(.+)"\s*$`)

// parsedLine is the outcome of mapping one rollout line: the AgentEvents it
// produces, plus bookkeeping the caller needs (the session id carried by a
// session_meta line, and whether a name was just set).
type parsedLine struct {
	events       []event.AgentEvent
	sessionMeta  *sessionMetaPayload
	nameWasSet   bool
}

// mapLine maps a single decoded rollout line to zero or more AgentEvents.
// sessionID is the session this file has been attributed to (empty before
// the session_meta line is seen). nameSet
// reports whether SessionNameUpdated has already fired for this session, so
// a bare turn_started preview never overwrites an explicit name.
func mapLine(raw []byte, sessionID string, nameSet bool) parsedLine {
	var env lineEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return parsedLine{}
	}

	base := func(kind event.Kind) event.AgentEvent {
		return event.New(kind, sessionID, event.Codex)
	}

	switch env.Type {
	case "session_meta":
		var meta sessionMetaPayload
		if err := json.Unmarshal(env.Payload, &meta); err != nil {
			return parsedLine{}
		}
		ev := event.New(event.SessionStarted, meta.ID, event.Codex)
		ev.Cwd = meta.Cwd
		return parsedLine{events: []event.AgentEvent{ev}, sessionMeta: &meta}

	case "response_item":
		var item responseItemPayload
		if err := json.Unmarshal(env.Payload, &item); err != nil {
			return parsedLine{}
		}
		switch item.Type {
		case "function_call":
			ev := base(event.ToolStarted)
			ev.ToolID = item.CallID
			ev.ToolName = item.Name
			ev.ToolLabel = extractCallLabel(item.Arguments)
			out := []event.AgentEvent{ev}

			if cmd, ok := extractCommand(item.Arguments); ok {
				if m := setNameCommand.FindStringSubmatch(cmd); m != nil {
					named := base(event.SessionNameUpdated)
					named.Name = m[1]
					out = append(out, named)
					return parsedLine{events: out, nameWasSet: true}
				}
			}
			return parsedLine{events: out}

		case "function_call_output":
			ev := base(event.ToolCompleted)
			ev.ToolID = item.CallID
			return parsedLine{events: []event.AgentEvent{ev}}
		}

	case "event_msg":
		var msg eventMsgPayload
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return parsedLine{}
		}
		switch msg.Type {
		case "task_complete":
			return parsedLine{events: []event.AgentEvent{base(event.Idle)}}
		case "request_user_input":
			return parsedLine{events: []event.AgentEvent{base(event.WaitingForInput)}}
		case "context_compacted":
			return parsedLine{events: []event.AgentEvent{base(event.Compacting)}}
		case "turn_started":
			if msg.Preview != "" && !nameSet {
				ev := base(event.SessionNameUpdated)
				ev.Name = msg.Preview
				return parsedLine{events: []event.AgentEvent{ev}, nameWasSet: true}
			}
		}
	}

	return parsedLine{}
}

// extractCommand pulls a "command" field out of a function_call's
// arguments, which Codex encodes either as a JSON object or as a
// JSON-stringified object (the OpenAI function-call convention).
func extractCommand(arguments json.RawMessage) (string, bool) {
	fields, ok := argumentFields(arguments)
	if !ok {
		return "", false
	}
	cmd, ok := fields["command"]
	return cmd, ok
}

// extractCallLabel derives a best-effort tool_label from a function_call's
// arguments: prefer "description", then "command", then "query"/"pattern",
// then "path", matching the spirit of the hook parser's own preference order.
func extractCallLabel(arguments json.RawMessage) string {
	fields, ok := argumentFields(arguments)
	if !ok {
		return ""
	}
	for _, key := range []string{"description", "command", "query", "pattern", "path"} {
		if v, ok := fields[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

func argumentFields(arguments json.RawMessage) (map[string]string, bool) {
	if len(arguments) == 0 {
		return nil, false
	}
	var fields map[string]string
	if json.Unmarshal(arguments, &fields) == nil {
		return fields, true
	}
	// Arguments may be a JSON-stringified object rather than a bare object.
	var asString string
	if json.Unmarshal(arguments, &asString) == nil {
		var nested map[string]string
		if json.Unmarshal([]byte(asString), &nested) == nil {
			return nested, true
		}
	}
	return nil, false
}
