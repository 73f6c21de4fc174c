package transport

import (
	"sync"

	"github.com/gorilla/websocket"
)

// safeWriter serializes writes to a websocket connection. Gorilla
// connections support one concurrent writer; broadcasts and per-client
// replies share one through this lock.
type safeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newSafeWriter(conn *websocket.Conn) *safeWriter {
	return &safeWriter{conn: conn}
}

func (w *safeWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *safeWriter) WritePrepared(msg *websocket.PreparedMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WritePreparedMessage(msg)
}

func (w *safeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}
