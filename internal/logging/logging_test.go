package logging

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"warn":    LevelWarn,
		"debug":   LevelDebug,
		"trace":   LevelTrace,
		"info":    LevelInfo,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for s, want := range cases {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	cases := []struct {
		count int
		want  Level
	}{
		{0, LevelWarn},
		{1, LevelInfo},
		{2, LevelDebug},
		{3, LevelTrace},
		{5, LevelTrace},
	}
	for _, c := range cases {
		if got := LevelFromVerbosity(c.count); got != c.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", c.count, got, c.want)
		}
	}
}

func TestSetLevelChangesThreshold(t *testing.T) {
	l := New(LevelWarn)
	l.SetLevel(LevelDebug)
	if l.level != LevelDebug {
		t.Errorf("level = %v, want LevelDebug", l.level)
	}
}
