package registry

import (
	"sync"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/internal/metrics"
)

// Conn is a live channel bound to one identity. Deliver must not block
// indefinitely; a failed delivery degrades the message to store-only.
type Conn interface {
	Deliver(msg model.Message) error
	Close() error
}

// Registry tracks at most one live channel per identity.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]Conn
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Registry {
	return &Registry{
		conns:   make(map[string]Conn),
		metrics: m,
	}
}

// Register binds identity to conn, replacing any prior binding. The displaced
// channel is returned, not closed: whether to tear it down is the caller's
// decision (the websocket transport closes it so the stale pump exits early).
func (r *Registry) Register(identity string, conn Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.conns[identity]
	r.conns[identity] = conn
	if prev == nil && r.metrics != nil {
		r.metrics.LiveConnections.Inc()
	}
	return prev
}

// Lookup returns the current channel for identity, if any.
func (r *Registry) Lookup(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[identity]
	return conn, ok
}

// Deregister removes the binding only when conn is the instance currently
// registered. A stale channel cleaning up after being replaced must never
// evict its successor.
func (r *Registry) Deregister(identity string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[identity]
	if !ok || current != conn {
		return
	}
	delete(r.conns, identity)
	if r.metrics != nil {
		r.metrics.LiveConnections.Dec()
	}
}

// Len reports the number of live bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
