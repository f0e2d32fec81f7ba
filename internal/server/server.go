// Package server exposes the round engine to UI clients over websockets.
// The server is a pure collaborator: it subscribes to the engine's event
// bus, fans events out as JSON messages, and translates client commands
// into engine actions. It holds no game state of its own.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/blackjack/internal/game"
)

// Server bridges websocket clients and the engine.
type Server struct {
	engine   *game.Engine
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	connections map[*Connection]struct{}

	httpServer *http.Server
}

// New creates a server for the given engine and subscribes it to the
// engine's bus.
func New(engine *game.Engine, addr string, logger *log.Logger) *Server {
	s := &Server{
		engine: engine,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connections: make(map[*Connection]struct{}),
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	engine.Bus().Subscribe(s)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeAll()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// OnEvent implements game.Subscriber: every engine event is fanned out to
// all connected clients. Delivery is synchronous inside engine actions, so
// this must never call back into the engine.
func (s *Server) OnEvent(event game.Event) {
	msg, ok := encodeEvent(event)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Send(msg)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s)
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", r.RemoteAddr)

	conn.Start()
	s.sendTableState(conn)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, conn)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connections = make(map[*Connection]struct{})
	s.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// sendTableState pushes the current roster to a freshly connected client so
// it does not have to wait for the next round to render the table. It runs
// on the HTTP handler goroutine, so it works from a TableState copy rather
// than live participant pointers, which a concurrent automated turn may be
// mutating under the engine mutex.
func (s *Server) sendTableState(conn *Connection) {
	state := s.engine.TableState()
	for i := range state.Players {
		if msg, ok := encodeEvent(game.NewParticipantUpdateEvent(&state.Players[i], "sync")); ok {
			_ = conn.Send(msg)
		}
	}
	if msg, ok := encodeEvent(game.NewParticipantUpdateEvent(&state.Dealer, "sync")); ok {
		_ = conn.Send(msg)
	}
	if msg, ok := encodeEvent(game.NewStateChangeEvent(state.Label, state.Round, state.Pot)); ok {
		_ = conn.Send(msg)
	}
}

// handleCommand translates a client command into an engine action. Invalid
// actions are tolerated: the engine rejects them and the client learns the
// outcome from the absence of resulting events.
func (s *Server) handleCommand(conn *Connection, cmd Command) {
	var ok bool
	switch cmd.Action {
	case "start":
		ok = s.engine.Start()
	case "hit":
		ok = s.engine.Hit(cmd.ParticipantID)
	case "stand":
		ok = s.engine.Stand(cmd.ParticipantID)
	case "double":
		ok = s.engine.DoubleDown(cmd.ParticipantID)
	case "bet":
		ok = s.engine.PlaceBet(cmd.ParticipantID, cmd.Amount)
	case "add_participant":
		_, ok = s.engine.AddParticipant(cmd.Name, cmd.Bank)
	default:
		s.logger.Warn("unknown command", "action", cmd.Action)
		return
	}
	if !ok {
		s.logger.Debug("command rejected", "action", cmd.Action, "participant", cmd.ParticipantID)
	}
}
