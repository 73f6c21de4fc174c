package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/perch/game"
)

// Server accepts websocket clients and fans simulation snapshots out to
// them. Client input flows into the game's command queue; the simulation
// loop stays the single writer of game state.
type Server struct {
	addr     string
	world    game.WorldSnapshot
	commands chan<- game.Command

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*safeWriter]struct{}

	httpServer *http.Server
}

// NewServer creates a server for the given listen address. The world
// snapshot is sent to every client on connect.
func NewServer(addr string, world game.WorldSnapshot, commands chan<- game.Command) *Server {
	s := &Server{
		addr:     addr,
		world:    world,
		commands: commands,
		upgrader: websocket.Upgrader{
			// The demo client is served from file:// or a dev server.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*safeWriter]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins listening. It returns immediately; serve errors other than
// a clean shutdown are logged.
func (s *Server) Start() {
	go func() {
		slog.Info("server_listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server_failed", "error", err)
		}
	}()
}

// Shutdown stops accepting clients and closes existing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for client := range s.clients {
		client.Close()
	}
	s.clients = make(map[*safeWriter]struct{})
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends a snapshot to every connected client. The message is
// marshaled and compressed once, not per client. Clients that fail to
// write are dropped.
func (s *Server) Broadcast(snap game.Snapshot) {
	data, err := json.Marshal(SnapshotMessage{Type: MsgSnapshot, Snapshot: snap})
	if err != nil {
		slog.Error("snapshot_marshal_failed", "error", err)
		return
	}
	prepared, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		slog.Error("snapshot_prepare_failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		if err := client.WritePrepared(prepared); err != nil {
			client.Close()
			delete(s.clients, client)
		}
	}
}

// handleWS upgrades a connection, sends the static world, and reads client
// input until the connection closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws_upgrade_failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := newSafeWriter(conn)
	slog.Info("ws_connected", "remote", conn.RemoteAddr().String())

	if err := client.WriteJSON(WorldMessage{Type: MsgWorld, World: s.world}); err != nil {
		slog.Warn("ws_world_send_failed", "error", err)
		client.Close()
		return
	}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.Close()
		slog.Info("ws_disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws_read_failed", "error", err)
			}
			return
		}

		cmd, err := parseCommand(data)
		if err != nil {
			slog.Warn("ws_bad_message", "error", err)
			continue
		}

		// Drop input rather than stall the reader when the queue is full.
		select {
		case s.commands <- cmd:
		default:
		}
	}
}
