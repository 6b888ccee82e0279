package codexwatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/agent-aura/aura/internal/event"
)

func envelope(t *testing.T, typ string, payload any) string {
	t.Helper()
	p, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	line, err := json.Marshal(map[string]json.RawMessage{
		"type":    mustJSON(t, typ),
		"payload": p,
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(line)
}

func mustJSON(t *testing.T, s string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func writeRollout(t *testing.T, dir string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, "rollout-test.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBootstrapSessionMetaAndReplayCap(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	lines = append(lines, envelope(t, "session_meta", sessionMetaPayload{ID: "s1", Cwd: "/u/dev"}))
	for i := 0; i < 10; i++ {
		lines = append(lines, envelope(t, "event_msg", map[string]string{"type": "task_complete"}))
	}
	writeRollout(t, dir, lines)

	var got []event.AgentEvent
	w := New(dir, func(ev event.AgentEvent) { got = append(got, ev) })
	w.BootstrapReplayLines = 4
	w.CodexHome = ""
	w.files = make(map[string]*fileState)
	// poll() would walk CodexHome/"sessions"; instead, call handleFile on
	// each file of the temp dir directly, for determinism.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	cutoff := pastCutoff()
	for _, e := range entries {
		w.handleFile(filepath.Join(dir, e.Name()), e, cutoff)
	}

	if len(got) == 0 {
		t.Fatalf("expected events, got none")
	}
	if got[0].Kind != event.SessionStarted || got[0].SessionID != "s1" {
		t.Fatalf("first event should be SessionStarted for s1, got %+v", got[0])
	}
	// 1 SessionStarted + at most 4 replayed Idle events.
	if len(got) > 5 {
		t.Fatalf("bootstrap replay must cap at 4 lines, got %d events total: %+v", len(got), got)
	}
}

func TestTailAppendsIncrementally(t *testing.T) {
	dir := t.TempDir()
	lines := []string{envelope(t, "session_meta", sessionMetaPayload{ID: "s1", Cwd: "/u/dev"})}
	writeRollout(t, dir, lines)

	var got []event.AgentEvent
	w := New(dir, func(ev event.AgentEvent) { got = append(got, ev) })
	w.files = make(map[string]*fileState)
	cutoff := pastCutoff()

	path := filepath.Join(dir, "rollout-test.jsonl")
	info, _ := os.Stat(path)
	entry := dirEntryFromStat(path, info)
	w.handleFile(path, entry, cutoff)
	if len(got) != 1 {
		t.Fatalf("expected 1 event after bootstrap, got %d", len(got))
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	appended := envelope(t, "event_msg", map[string]string{"type": "request_user_input"})
	f.WriteString(appended + "\n")
	f.Close()

	w.handleFile(path, entry, cutoff)
	if len(got) != 2 {
		t.Fatalf("expected 2 events after tail, got %d: %+v", len(got), got)
	}
	if got[1].Kind != event.WaitingForInput {
		t.Errorf("got %+v", got[1])
	}
}

func TestFunctionCallLifecycle(t *testing.T) {
	dir := t.TempDir()
	args, _ := json.Marshal(map[string]string{"command": "npm test"})
	lines := []string{
		envelope(t, "session_meta", sessionMetaPayload{ID: "s1", Cwd: "/u/dev"}),
		envelope(t, "response_item", responseItemPayload{Type: "function_call", CallID: "c1", Name: "shell", Arguments: args}),
		envelope(t, "response_item", responseItemPayload{Type: "function_call_output", CallID: "c1"}),
	}
	writeRollout(t, dir, lines)

	var got []event.AgentEvent
	w := New(dir, func(ev event.AgentEvent) { got = append(got, ev) })
	w.files = make(map[string]*fileState)
	path := filepath.Join(dir, "rollout-test.jsonl")
	info, _ := os.Stat(path)
	entry := dirEntryFromStat(path, info)
	w.handleFile(path, entry, pastCutoff())

	if len(got) != 3 {
		t.Fatalf("expected SessionStarted+ToolStarted+ToolCompleted, got %d: %+v", len(got), got)
	}
	if got[1].Kind != event.ToolStarted || got[1].ToolID != "c1" || got[1].ToolLabel != "npm test" {
		t.Errorf("ToolStarted wrong: %+v", got[1])
	}
	if got[2].Kind != event.ToolCompleted || got[2].ToolID != "c1" {
		t.Errorf("ToolCompleted wrong: %+v", got[2])
	}
}
