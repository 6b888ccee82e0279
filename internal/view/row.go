package view

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
	"time"

	"github.com/agent-aura/aura/internal/registry"
)

// placeholders is the fixed set drawn from when a Running session has
// no tool in flight. Selection is a deterministic hash of session_id, so it
// is stable for the lifetime of the process without needing to store
// anything in the registry.
var placeholders = []string{
	"thinking…", "drafting…", "building…", "planning…",
	"analyzing…", "pondering…", "processing…", "reasoning…",
}

// cyclePeriod is the fixed period the UI cycles running tools / recent
// activity entries at.
const cyclePeriod = 2 * time.Second

// Row is everything the session list needs to render one session.
type Row struct {
	SessionID string
	Title     string
	Subtitle  string
}

// Project builds the Row for a single session at instant now.
func Project(s *registry.Session, now time.Time) Row {
	return Row{
		SessionID: s.SessionID,
		Title:     title(s),
		Subtitle:  subtitle(s, now),
	}
}

func title(s *registry.Session) string {
	if s.Name != "" {
		return s.Name
	}
	if s.Cwd != "" {
		base := filepath.Base(s.Cwd)
		if base != "." && base != string(filepath.Separator) {
			return base
		}
	}
	return "Unknown"
}

func subtitle(s *registry.Session, now time.Time) string {
	switch s.State {
	case registry.Idle:
		return "waiting since " + formatTimestamp(s.StoppedAt)
	case registry.Stale:
		return "inactive since " + formatTimestamp(s.StaleAt)
	case registry.Attention:
		tool := s.PermissionTool
		if tool == "" {
			tool = "Tool"
		}
		return tool + " needs permission"
	case registry.Waiting:
		return "waiting for input"
	case registry.Compacting:
		return "compacting context…"
	case registry.Running:
		if len(s.RunningTools) > 0 {
			idx := ToolIndex(now, len(s.RunningTools))
			return DisplayTool(s.RunningTools[idx])
		}
		if len(s.RecentTools) > 0 {
			idx := ToolIndex(now, len(s.RecentTools))
			return s.RecentTools[idx]
		}
		return placeholderFor(s.SessionID)
	default:
		return ""
	}
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

// ToolIndex implements tool_index(now) = (now_ms/2000) mod n. It
// clamps against n, so a shrinking list never indexes out of range even if
// the caller computed idx before a tool completed.
func ToolIndex(now time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	nowMs := now.UnixMilli()
	idx := int((nowMs / int64(cyclePeriod/time.Millisecond)) % int64(n))
	if idx < 0 {
		idx += n
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// placeholderFor deterministically selects a placeholder string for a
// session_id, stable for the lifetime of the process.
func placeholderFor(sessionID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	idx := int(h.Sum32() % uint32(len(placeholders)))
	return placeholders[idx]
}

// mcpParts matches the mcp__server__function tool-name shape.
func mcpParts(name string) (server, function string, ok bool) {
	if !strings.HasPrefix(name, "mcp__") {
		return "", "", false
	}
	rest := strings.TrimPrefix(name, "mcp__")
	parts := strings.SplitN(rest, "__", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// DisplayTool renders a running tool for the session list row: an MCP tool
// renders as "server: label" (falling back to the bare function name when
// no label was extracted); anything else prefers ToolLabel, falling back to
// ToolName.
func DisplayTool(t registry.RunningTool) string {
	if server, function, ok := mcpParts(t.ToolName); ok {
		label := t.ToolLabel
		if label == "" {
			label = function
		}
		return fmt.Sprintf("%s: %s", server, label)
	}
	if t.ToolLabel != "" {
		return t.ToolLabel
	}
	return t.ToolName
}
