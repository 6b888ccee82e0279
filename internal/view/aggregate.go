// Package view holds the pure, stateless functions that map a registry
// snapshot to what the indicator and session list overlays must display.
// Nothing here mutates or reads anything but its arguments.
package view

import "github.com/agent-aura/aura/internal/registry"

// AggregateIndicator4 computes the 4-value indicator state (idle, attention,
// waiting, running) in priority order.
func AggregateIndicator4(sessions []*registry.Session) string {
	if len(sessions) == 0 {
		return "idle"
	}
	for _, s := range sessions {
		if s.State == registry.Attention {
			return "attention"
		}
	}
	for _, s := range sessions {
		if s.State == registry.Waiting {
			return "waiting"
		}
	}
	return "running"
}

// AggregateIndicator5 computes the richer notch-flanking projection
// (running, compacting, idle, stale) per the same priority-order principle,
// using the same priority-order approach.
func AggregateIndicator5(sessions []*registry.Session) string {
	if len(sessions) == 0 {
		return "idle"
	}
	for _, s := range sessions {
		if s.State == registry.Running {
			return "running"
		}
	}
	for _, s := range sessions {
		if s.State == registry.Compacting {
			return "compacting"
		}
	}
	for _, s := range sessions {
		if s.State == registry.Idle {
			return "idle"
		}
	}
	for _, s := range sessions {
		if s.State == registry.Stale {
			return "stale"
		}
	}
	return "idle"
}
