package ws

import (
	"encoding/json"
	"time"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Client - одно websocket-соединение. У пользователя может быть несколько.
type Client struct {
	ID    string
	Actor auth.Actor
	Conn  *websocket.Conn
	Send  chan any

	Manager *WebSocketManager
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.remove(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "client_id", c.ID, "error", err)
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("ignoring malformed websocket message", "client_id", c.ID)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.Warn("websocket write error", "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Клиент ленты только читает; из входящих команд поддерживается ping
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "ping":
		c.Manager.sendTo(c, map[string]string{"type": "pong"})
	default:
		logger.Debug("unhandled websocket action", "client_id", c.ID, "action", msg.Action)
	}
}
