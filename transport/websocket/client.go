package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-server/internal/config"
	"github.com/rocketscienceinc/tictactoe-server/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-server/internal/usecase"
)

// Client is one websocket connection. games is guarded by the hub's mutex.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	conf    config.WebSocket
	session usecase.Session

	send  chan []byte
	games map[string]struct{}

	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, conf config.WebSocket, session usecase.Session) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		conf:    conf,
		session: session,
		send:    make(chan []byte, conf.SendBuffer),
		games:   make(map[string]struct{}),
	}
}

// kick closes the underlying connection, which ends both pumps.
func (that *Client) kick() {
	that.closeOnce.Do(func() {
		if that.conn != nil {
			_ = that.conn.Close()
		}
	})
}

// readPump handles inbound frames one at a time until the connection fails.
func (that *Client) readPump(ctx context.Context, manager gameManager) {
	log := that.hub.logger.With("method", "readPump", "connID", that.session.ConnID)

	defer func() {
		that.hub.unregister(that)
		that.kick()
	}()

	that.conn.SetReadLimit(that.conf.ReadLimit)
	_ = that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.conf.PongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrReadLimit) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		msg, err := protocol.DecodeInbound(raw)
		if err != nil {
			manager.Reject(ctx, that.session, protocol.PeekType(raw), err)
			continue
		}

		manager.Handle(ctx, that.session, msg)
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (that *Client) writePump() {
	ticker := time.NewTicker(that.conf.PingPeriod())
	defer func() {
		ticker.Stop()
		that.kick()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.conf.WriteWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
