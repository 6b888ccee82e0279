package registry

import (
	"encoding/json"
	"testing"
)

func TestStateJSONRoundTrip(t *testing.T) {
	for s := Running; s <= Stale; s++ {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", s, err)
		}
		var got State
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != s {
			t.Errorf("round-trip %v -> %s -> %v", s, data, got)
		}
	}
}

func TestStateUnmarshalUnknownNameLeavesUnchanged(t *testing.T) {
	s := Attention
	if err := json.Unmarshal([]byte(`"bogus"`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s != Attention {
		t.Errorf("got %v, want Attention unchanged", s)
	}
}
