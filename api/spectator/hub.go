package spectatorapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 32
	writeTimeout = 2 * time.Second
)

var _ game.Renderer = &Hub{}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams every drawn frame to connected websocket spectators. A
// spectator that falls sendBuffer frames behind is disconnected; the tick
// loop never waits on the network.
type Hub struct {
	encoder  game.Encoder
	logger   i.Logger
	upgrader websocket.Upgrader

	clients map[*client]struct{}
	last    []byte
	closed  bool
	sync.Mutex
}

// NewHub encodes frames with encoder.
func NewHub(encoder game.Encoder, logger i.Logger) *Hub {
	return &Hub{
		encoder: encoder,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Draw implements game.Renderer.
func (h *Hub) Draw(f game.Frame) error {
	payload, err := h.encoder.MarshalFrame(f)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", f.Tick, err)
	}

	h.Lock()
	defer h.Unlock()
	h.last = payload
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.drop(c)
			h.warn("dropped a spectator that fell behind")
		}
	}
	return nil
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.Lock()
	defer h.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams frames until the spectator leaves
// or the hub closes. The most recent frame is sent first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.warn(fmt.Sprintf("failed to upgrade spectator connection: %v", err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.Lock()
	if h.closed {
		h.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "run over"))
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every spectator and refuses new ones.
func (h *Hub) Close() {
	h.Lock()
	defer h.Unlock()
	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

// drop must be called with the hub locked.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.Lock()
	defer h.Unlock()
	h.drop(c)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run over"))
}

// readPump discards anything the spectator sends and notices when it leaves.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) warn(msg string) {
	if h.logger != nil {
		h.logger.Warning(msg)
	}
}
