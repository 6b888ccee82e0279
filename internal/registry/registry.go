package registry

import (
	"sync"
	"time"

	"github.com/agent-aura/aura/internal/event"
)

// DefaultStaleAfter is how long a non-Running session can go without an
// event before it is considered stale.
const DefaultStaleAfter = 10 * time.Minute

// Clock is the time source the registry uses, overridden in tests so stale
// timers can be exercised without sleeping.
type Clock func() time.Time

// Registry is the single logical critical section over all sessions. It is
// always created empty — no session history survives a restart — and
// exposes Apply as the only path by which state changes.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	timers     map[string]*time.Timer
	staleAfter time.Duration
	now        Clock
}

// New creates an empty registry. staleAfter <= 0 selects DefaultStaleAfter.
func New(staleAfter time.Duration) *Registry {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Registry{
		sessions:   make(map[string]*Session),
		timers:     make(map[string]*time.Timer),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Intended for tests only.
func (r *Registry) SetClock(c Clock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = c
}

// Get returns a defensive copy of one session, or nil if it does not exist.
func (r *Registry) Get(sessionID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	return s.Clone()
}

// Snapshot returns defensive copies of every tracked session. Safe to hold
// and render without further synchronization.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	return out
}

// Count returns the number of tracked sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Apply applies a single AgentEvent to the registry. It never blocks on I/O;
// the only suspension is the mutex itself.
func (r *Registry) Apply(ev event.AgentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Kind == event.SessionEnded {
		r.deleteLocked(ev.SessionID)
		return
	}

	s, exists := r.sessions[ev.SessionID]
	if !exists {
		if ev.Kind != event.SessionStarted {
			// No event other than SessionStarted creates a session; a
			// reference to an unknown session_id is a no-op.
			return
		}
		s = &Session{SessionID: ev.SessionID, AgentKind: ev.AgentKind.String()}
		r.sessions[ev.SessionID] = s
	}

	now := r.now()
	r.applyLocked(s, ev, now)
	s.LastEventAt = now
	r.rearmLocked(s.SessionID, s.State, now)
}

// Remove deletes a session unconditionally, independent of its current
// state.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteLocked(sessionID)
}

func (r *Registry) deleteLocked(sessionID string) {
	if t, ok := r.timers[sessionID]; ok {
		t.Stop()
		delete(r.timers, sessionID)
	}
	delete(r.sessions, sessionID)
}

// applyLocked performs the per-event state transition. It assumes r.mu is
// held.
func (r *Registry) applyLocked(s *Session, ev event.AgentEvent, now time.Time) {
	switch ev.Kind {
	case event.SessionStarted:
		s.State = Running
		s.RunningTools = nil
		if ev.Cwd != "" {
			s.Cwd = ev.Cwd
		}
		if ev.Name != "" {
			s.Name = ev.Name
		}
		s.PermissionTool = ""
		s.StoppedAt = nil
		s.StaleAt = nil

	case event.ToolStarted:
		s.State = Running
		s.insertTool(RunningTool{ToolID: ev.ToolID, ToolName: ev.ToolName, ToolLabel: ev.ToolLabel})
		s.PermissionTool = ""
		s.StoppedAt = nil
		s.StaleAt = nil

	case event.ToolCompleted:
		s.removeTool(ev.ToolID)

	case event.Activity:
		s.State = Running
		s.PermissionTool = ""
		s.StoppedAt = nil
		s.StaleAt = nil

	case event.Idle:
		s.State = Idle
		s.RunningTools = nil
		s.PermissionTool = ""
		s.StaleAt = nil
		t := now
		s.StoppedAt = &t

	case event.NeedsAttention:
		s.State = Attention
		s.PermissionTool = ev.Message
		s.StaleAt = nil

	case event.WaitingForInput:
		s.State = Waiting
		s.PermissionTool = ""
		s.StaleAt = nil

	case event.Compacting:
		s.State = Compacting
		s.PermissionTool = ""
		s.StaleAt = nil

	case event.SessionNameUpdated:
		s.Name = ev.Name
	}
}

// rearmLocked cancels any pending stale timer for sessionID and re-arms it
// only if state is neither Running nor Stale: Running sessions never go
// stale, and Stale sessions stay Stale until explicitly changed or removed.
// Assumes r.mu is held.
func (r *Registry) rearmLocked(sessionID string, state State, armedAt time.Time) {
	if t, ok := r.timers[sessionID]; ok {
		t.Stop()
		delete(r.timers, sessionID)
	}
	if state == Running || state == Stale {
		return
	}
	r.timers[sessionID] = time.AfterFunc(r.staleAfter, func() {
		r.fireStale(sessionID, armedAt)
	})
}

// fireStale is invoked from the timer goroutine when a session's stale
// timeout elapses. If the session's last event is still the one that armed
// this timer, it transitions to Stale; otherwise the firing is a no-op
// (superseded by a later event that already re-armed its own timer).
func (r *Registry) fireStale(sessionID string, armedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	if s.LastEventAt.After(armedAt) {
		return
	}
	now := r.now()
	s.State = Stale
	t := now
	s.StaleAt = &t
	delete(r.timers, sessionID)
}
