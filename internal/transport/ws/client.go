package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// Client is one websocket connection. It implements room.Conn.
type Client struct {
	id          room.ConnID
	conn        *websocket.Conn
	hub         *Hub
	cfg         Config
	logger      *slog.Logger
	connectedAt time.Time

	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

var _ room.Conn = (*Client)(nil)

func newClient(id room.ConnID, conn *websocket.Conn, hub *Hub, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		id:          id,
		conn:        conn,
		hub:         hub,
		cfg:         cfg,
		logger:      logger.With(slog.String("conn_id", string(id))),
		connectedAt: time.Now(),
		send:        make(chan []byte, cfg.SendBufferSize),
		done:        make(chan struct{}),
	}
}

// ID returns the connection id
func (c *Client) ID() room.ConnID {
	return c.id
}

// Send queues a message for the write pump. It never blocks: when the buffer is full the message is dropped.
func (c *Client) Send(msg model.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message",
			slog.String("event", string(msg.Type)),
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("ws message dropped - client buffer full",
			slog.String("event", string(msg.Type)))
	}
}

// stop ends the write pump. Safe to call more than once.
func (c *Client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// readPump reads frames until the connection fails, then unregisters the client
func (c *Client) readPump(ctx context.Context) {
	defer c.hub.Unregister(ctx, c)

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws read failed", slog.String("error", err.Error()))
			}
			return
		}
		c.hub.dispatch(ctx, c, data)
	}
}

// writePump drains the send buffer and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("ws write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.flush()
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still queued before the connection closes
func (c *Client) flush() {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}
