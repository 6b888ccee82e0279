// Package procwatch samples per-session process churn (CPU usage, open TCP
// connections) for display on the debug introspection endpoint. It never
// feeds into canonical session state — a session's state machine transitions
// come only from hook/rollout events, never from how busy its process looks.
package procwatch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Activity is a single sample of a running agent process.
type Activity struct {
	PID        int32
	WorkingDir string
	CPUPercent float64
	TCPConns   int
}

// Churning reports whether the sample shows signs of active work: CPU above
// the threshold, and optionally at least one established TCP connection.
func (a Activity) Churning(cpuThreshold float64, requireNetwork bool) bool {
	if a.CPUPercent < cpuThreshold {
		return false
	}
	if requireNetwork && a.TCPConns == 0 {
		return false
	}
	return true
}

// Sampler periodically scans running processes and keeps the latest
// Activity sample for each agent process it recognizes, keyed by working
// directory (comparable with a registry session's Cwd; the registry itself
// is keyed by session_id).
type Sampler struct {
	Interval time.Duration

	mu      sync.RWMutex
	samples map[string]Activity
}

// NewSampler builds a Sampler with the given poll interval.
func NewSampler(interval time.Duration) *Sampler {
	return &Sampler{Interval: interval, samples: make(map[string]Activity)}
}

// Snapshot returns a defensive copy of the most recent samples, keyed by
// working directory. Safe to call concurrently with Run's poll loop.
func (s *Sampler) Snapshot() map[string]Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Activity, len(s.samples))
	for k, v := range s.samples {
		out[k] = v
	}
	return out
}

// Run polls until ctx is canceled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

func (s *Sampler) poll() {
	procs, err := process.Processes()
	if err != nil {
		return
	}

	samples := make(map[string]Activity, len(procs))
	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || !isAgentProcess(cmdline) {
			continue
		}
		cwd, err := p.Cwd()
		if err != nil || cwd == "" {
			continue
		}
		cpuPct, _ := p.CPUPercent()
		tcpConns := establishedTCPCount(p)

		samples[cwd] = Activity{
			PID:        p.Pid,
			WorkingDir: cwd,
			CPUPercent: cpuPct,
			TCPConns:   tcpConns,
		}
	}

	s.mu.Lock()
	s.samples = samples
	s.mu.Unlock()
}

func establishedTCPCount(p *process.Process) int {
	conns, err := p.Connections()
	if err != nil {
		return 0
	}
	count := 0
	for _, c := range conns {
		if c.Type == 1 /* SOCK_STREAM */ && c.Status == "ESTABLISHED" {
			count++
		}
	}
	return count
}

// isAgentProcess reports whether cmdline belongs to a known agent binary
// (claude, codex, or a node process running one of them).
func isAgentProcess(cmdline string) bool {
	lower := strings.ToLower(cmdline)
	if strings.Contains(lower, "claude") || strings.Contains(lower, "codex") {
		if strings.Contains(lower, "node_modules/.bin") {
			return false
		}
		return true
	}
	return false
}
