// Package server wraps the ballistics solver in a small websocket/HTTP
// service: gameplay AI processes hold a socket open and stream solve
// requests, or hit the one-shot JSON endpoint. The service owns all
// validation and logging; the core stays pure.
package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Message types
const (
	MsgTypeSolve  = "solve"  // client: full intercept search
	MsgTypePlan   = "plan"   // client: single solution via a strategy
	MsgTypeResult = "result" // server: SolveResponse
	MsgTypeChosen = "chosen" // server: PlanResponse
	MsgTypeError  = "error"  // server: ErrorResponse
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents one connected solver consumer
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Server manages client connections and dispatches solve requests.
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	nextID     int

	cfg   Config
	log   *zap.Logger
	stats solveStats
}

// NewServer creates a solve service with the given settings.
func NewServer(cfg Config, log *zap.Logger) *Server {
	return &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		cfg:        cfg,
		log:        log,
	}
}

// Run starts the connection bookkeeping loop. It returns when Shutdown is
// called.
func (s *Server) Run() {
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.log.Info("client connected", zap.Int("client", client.ID))

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			s.log.Info("client disconnected", zap.Int("client", client.ID))

		case <-s.done:
			s.mu.Lock()
			for id, client := range s.clients {
				close(client.send)
				delete(s.clients, id)
			}
			s.mu.Unlock()
			return
		}
	}
}

// Shutdown stops the Run loop and drops all connected clients.
func (s *Server) Shutdown() {
	close(s.done)
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn("websocket read failed", zap.Int("client", c.ID), zap.Error(err))
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a message from the client. Bad requests get an
// error reply, never a disconnect.
func (c *Client) handleMessage(msg ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Error("panic handling message",
				zap.Int("client", c.ID), zap.String("type", msg.Type), zap.Any("panic", r))
		}
	}()

	switch msg.Type {
	case MsgTypeSolve:
		c.handleSolve(msg.Data)
	case MsgTypePlan:
		c.handlePlan(msg.Data)
	default:
		c.sendError("", "unknown message type: "+msg.Type)
	}
}

// sendError queues an error reply without blocking the read loop.
func (c *Client) sendError(id, message string) {
	c.trySend(ServerMessage{
		Type: MsgTypeError,
		Data: ErrorResponse{ID: id, Message: message},
	})
}

// trySend drops the message if the client's send buffer is full, matching
// the non-blocking send policy of the pump design.
func (c *Client) trySend(msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		c.server.log.Warn("client send buffer full, dropping message",
			zap.Int("client", c.ID), zap.String("type", msg.Type))
	}
}
