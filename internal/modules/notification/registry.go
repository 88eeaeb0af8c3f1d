// README: Live-connection registry; one open WebSocket per actor id, guarded for concurrent use.
package notification

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"eats/internal/types"
)

var errNoConnection = errors.New("no live connection for actor")

const writeWait = 5 * time.Second

// liveConn pairs a connection with its write lock; gorilla/websocket
// supports at most one concurrent writer per connection.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Registry maps actor ids (vendor or rider) to their open WebSocket. All
// methods are safe for concurrent registration, deregistration, and send.
type Registry struct {
	mu    sync.RWMutex
	conns map[types.ID]*liveConn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[types.ID]*liveConn)}
}

// Register attaches a connection for the actor, displacing any previous
// one; a reconnecting dashboard should not leave a stale socket behind.
func (r *Registry) Register(actorID types.ID, conn *websocket.Conn) {
	r.mu.Lock()
	prev := r.conns[actorID]
	r.conns[actorID] = &liveConn{conn: conn}
	r.mu.Unlock()
	if prev != nil {
		_ = prev.conn.Close()
	}
}

// Unregister drops the actor's connection if it is still the given one.
func (r *Registry) Unregister(actorID types.ID, conn *websocket.Conn) {
	r.mu.Lock()
	if lc := r.conns[actorID]; lc != nil && lc.conn == conn {
		delete(r.conns, actorID)
	}
	r.mu.Unlock()
}

// Send delivers one JSON payload to the actor's live connection, if any.
// The per-connection lock is held across the deadline and the write so
// concurrent deliveries to one actor serialize instead of interleaving
// frames.
func (r *Registry) Send(actorID types.ID, payload any) error {
	r.mu.RLock()
	lc := r.conns[actorID]
	r.mu.RUnlock()
	if lc == nil {
		return errNoConnection
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lc.conn.WriteJSON(payload)
}
