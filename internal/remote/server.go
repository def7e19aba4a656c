// ABOUTME: WebSocket bridge exposing the input and render collaborators
// ABOUTME: Accepts JSON input events and broadcasts playhead/view state
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wavetag/wavetag-go/internal/app"
	"github.com/wavetag/wavetag-go/internal/version"
)

// Server bridges remote clients to the controller over /wavetag
type Server struct {
	ctrl *app.Controller

	mu      sync.Mutex
	clients map[*client]struct{}

	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

type client struct {
	session string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewServer creates a bridge over the controller and registers it as a
// sync loop listener
func NewServer(ctrl *app.Controller) *Server {
	s := &Server{
		ctrl:    ctrl,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	ctrl.AddListener(s.broadcastPlayhead)

	return s
}

// ListenAndServe serves the bridge until Close
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/wavetag", s.handleWS)

	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	log.Printf("Remote bridge listening on %s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("bridge server: %w", err)
	}
	return nil
}

// handleWS upgrades a connection and runs its read loop
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Bridge upgrade failed: %v", err)
		return
	}

	c := &client{
		session: uuid.New().String(),
		conn:    conn,
	}

	snap := s.ctrl.Snapshot()
	hello, err := encode("server/hello", Hello{
		SessionID:  c.session,
		Version:    version.Version,
		Title:      snap.Title,
		DurationMs: snap.DurationMs,
	})
	if err != nil {
		conn.Close()
		return
	}
	if err := c.send(hello); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	log.Printf("Bridge client connected: %s", c.session)
	s.readLoop(c)
}

// readLoop decodes input events until the connection drops
func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.conn.Close()
		log.Printf("Bridge client disconnected: %s", c.session)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Bridge: bad message from %s: %v", c.session, err)
			continue
		}

		ev, err := translateEvent(msg)
		if err != nil {
			log.Printf("Bridge: %v", err)
			continue
		}

		s.ctrl.Dispatch(ev)
		s.broadcastView()
	}
}

// translateEvent maps a wire message to a controller event
func translateEvent(msg Message) (app.Event, error) {
	switch msg.Type {
	case "input/scroll":
		var p InputScroll
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("bad scroll payload: %w", err)
		}
		dir := app.ScrollUp
		if p.Direction == "down" {
			dir = app.ScrollDown
		}
		return app.ScrollEvent{Direction: dir, FocusMs: p.FocusMs}, nil

	case "input/drag":
		var p InputDrag
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("bad drag payload: %w", err)
		}
		return app.DragEvent{DeltaMs: p.DeltaMs}, nil

	case "input/key":
		var p InputKey
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("bad key payload: %w", err)
		}
		return app.KeyEvent{Code: p.Code}, nil

	case "input/click":
		var p InputClick
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("bad click payload: %w", err)
		}
		return app.ClickEvent{TimeMs: p.TimeMs}, nil
	}

	return nil, fmt.Errorf("unknown message type: %s", msg.Type)
}

// broadcastPlayhead fans out a sync loop update to all clients
func (s *Server) broadcastPlayhead(u app.Update) {
	msg, err := encode("state/playhead", StatePlayhead{
		PositionMs: u.PlayheadMs,
		Word:       u.CurrentWord,
		Active:     u.Active,
	})
	if err != nil {
		return
	}
	s.broadcast(msg)
}

// broadcastView sends viewport and marker state after input mutation
func (s *Server) broadcastView() {
	snap := s.ctrl.Snapshot()

	markers := make([]MarkerState, len(snap.Markers))
	for i, m := range snap.Markers {
		markers[i] = MarkerState{
			Index:      m.Index,
			Label:      m.Label,
			PositionMs: m.PositionMs,
			Selected:   m.Selected,
		}
	}

	msg, err := encode("state/view", StateView{
		ViewStartMs: snap.ViewStartMs,
		ViewEndMs:   snap.ViewEndMs,
		Markers:     markers,
	})
	if err != nil {
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg Message) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Printf("Bridge write to %s failed: %v", c.session, err)
		}
	}
}

func (c *client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Close shuts the bridge down and drops all clients
func (s *Server) Close() error {
	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
