package ws

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client owns one websocket connection. The read pump decodes inbound
// frames into relay commands; the write pump drains the send buffer and
// keeps the connection alive with pings. Client is also the connection's
// EventSink: the relay pushes outbound events through Consume.
type Client struct {
	id     chat.ConnID
	conn   *websocket.Conn
	send   chan []byte
	relay  Relay
	log    *slog.Logger
	opts   Options
	closed atomic.Bool
}

// Relay is the slice of the relay the transport needs.
type Relay interface {
	Dispatch(cmd chat.Command)
}

func NewClient(id chat.ConnID, conn *websocket.Conn, relay Relay,
	log *slog.Logger, opts Options) *Client {
	conn.SetReadLimit(opts.MaxMessageSize)
	return &Client{
		id:    id,
		conn:  conn,
		send:  make(chan []byte, opts.SendBufferSize),
		relay: relay,
		log:   log,
		opts:  opts,
	}
}

// ID returns the connection identifier.
func (c *Client) ID() chat.ConnID { return c.id }

// Consume implements contract.EventSink. It frames the event and queues it
// on the connection's send buffer without ever blocking the relay loop: a
// closed connection or a full buffer is reported as an error and the caller
// skips this recipient.
func (c *Client) Consume(ctx context.Context, e event.DomainEvent) error {
	if c.closed.Load() {
		return errors.ErrSinkClosed
	}
	frame, err := EncodeEvent(e)
	if err != nil {
		return err
	}
	select {
	case c.send <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkFull
	}
}

// readPump reads frames until the connection dies. Its exit is the
// transport's one genuine terminal signal: the deferred block marks the
// sink closed and dispatches the disconnect command exactly once, which is
// the only path that cleans up registry state for this connection.
func (c *Client) readPump() {
	defer func() {
		c.closed.Store(true)
		c.relay.Dispatch(chat.DisconnectCommand{Conn: c.id})
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected websocket error", "conn_id", c.id, "error", err)
			} else {
				c.log.Debug("Client disconnected", "conn_id", c.id, "error", err)
			}
			return
		}

		cmd, err := DecodeCommand(c.id, raw)
		if err != nil {
			// Malformed frames are dropped locally, never fatal.
			c.log.Warn("Dropping malformed frame", "conn_id", c.id, "error", err)
			continue
		}
		c.relay.Dispatch(cmd)
	}
}

// writePump serializes all writes to the connection: queued frames and the
// periodic ping. The ping deadline doubles as the liveness check; its expiry
// surfaces in readPump as a read error, i.e. a normal close.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Write failed, closing connection", "conn_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
