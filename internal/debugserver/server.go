// Package debugserver is an optional, read-only HTTP+WebSocket
// introspection endpoint for the registry. It is disabled by default and
// never influences canonical session state — it only reads it.
package debugserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agent-aura/aura/internal/procwatch"
	"github.com/agent-aura/aura/internal/registry"
)

// snapshotThrottle bounds how often the WS push loop re-sends a snapshot.
const snapshotThrottle = 500 * time.Millisecond

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{conn: conn, send: make(chan []byte, 8)}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *wsClient) close() { close(c.send) }

// Server exposes GET /snapshot (a single JSON read) and GET /ws (a pushed,
// throttled stream of snapshots) over the registry it was built with.
type Server struct {
	addr    string
	reg     *registry.Registry
	sampler *procwatch.Sampler

	mu      sync.RWMutex
	clients map[*wsClient]bool
	seq     atomic.Uint64
}

// New builds a debug server bound to host:port, reading from reg. sampler
// may be nil, in which case Snapshot.ProcessActivity is always empty.
func New(host string, port int, reg *registry.Registry, sampler *procwatch.Sampler) *Server {
	return &Server{
		addr:    fmt.Sprintf("%s:%d", host, port),
		reg:     reg,
		sampler: sampler,
		clients: make(map[*wsClient]bool),
	}
}

// ListenAndServe runs the HTTP server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWS)

	httpSrv := &http.Server{Addr: s.addr, Handler: mux}

	go s.broadcastLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("debug server listening on %s", s.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshot())
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("debug ws upgrade error: %v", err)
		return
	}

	c := newWSClient(conn)
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	s.sendTo(c, s.snapshot())

	go func() {
		defer func() {
			s.mu.Lock()
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				c.close()
			}
			s.mu.Unlock()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(snapshotThrottle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(s.snapshot())
		}
	}
}

func (s *Server) snapshot() Snapshot {
	snap := Snapshot{
		Type:     MsgSnapshot,
		Seq:      s.seq.Add(1),
		Sessions: s.reg.Snapshot(),
	}
	if s.sampler != nil {
		snap.ProcessActivity = s.sampler.Snapshot()
	}
	return snap
}

func (s *Server) sendTo(c *wsClient, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("debug snapshot marshal error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("debug snapshot marshal error: %v", err)
		return
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			log.Printf("debug ws client too slow, disconnecting")
			s.mu.Lock()
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				c.close()
			}
			s.mu.Unlock()
		}
	}
}
