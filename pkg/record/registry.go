package record

import "sync"

// Registry holds the connection shared by mappers. Tests can swap the
// connection without touching process-wide state.
type Registry struct {
	conn *Conn
	mu   sync.RWMutex
}

// NewRegistry creates a registry, optionally with an initial connection.
func NewRegistry(conn *Conn) *Registry {
	return &Registry{conn: conn}
}

// SetConnection replaces the connection.
func (r *Registry) SetConnection(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conn = conn
}

// Connection returns the connection or ErrNoConnection.
func (r *Registry) Connection() (*Conn, error) {
	if r == nil {
		return nil, ErrNoConnection
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return nil, ErrNoConnection
	}
	return r.conn, nil
}
