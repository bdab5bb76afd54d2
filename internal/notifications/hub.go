package notifications

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Hub fans live envelopes out to connected clients, keyed by user.
type Hub struct {
	register   chan *client
	unregister chan *client
	deliver    chan targetedEnvelope
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

type client struct {
	actor programs.Actor
	conn  *websocket.Conn
	send  chan Envelope
}

type targetedEnvelope struct {
	userIDs  map[string]bool
	envelope Envelope
}

func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		deliver:    make(chan targetedEnvelope, 256),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	clients := make(map[*client]bool)
	for {
		select {
		case c := <-h.register:
			clients[c] = true
		case c := <-h.unregister:
			if clients[c] {
				delete(clients, c)
				close(c.send)
			}
		case t := <-h.deliver:
			for c := range clients {
				if !t.userIDs[c.actor.ID.String()] {
					continue
				}
				select {
				case c.send <- t.envelope:
				default:
					// Slow consumer, drop the connection rather
					// than block every other delivery.
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Deliver pushes an envelope to any live connections of the given
// users. Users without an open connection just miss the push; the
// stored notification record is the durable copy.
func (h *Hub) Deliver(userIDs []string, envelope Envelope) {
	targets := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}
	select {
	case h.deliver <- targetedEnvelope{userIDs: targets, envelope: envelope}:
	default:
		h.logger.Warn("notification hub backlog full, dropping push")
	}
}

// HandleConnection upgrades the request and starts the read and write
// pumps for an authenticated actor.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, actor programs.Actor) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{
		actor: actor,
		conn:  conn,
		send:  make(chan Envelope, 64),
	}
	h.register <- c
	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case envelope, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
