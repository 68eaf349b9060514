package ws

import (
	"encoding/json"
	"time"

	"jobconnect_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192
	sendBufferSize = 256
)

// IncomingMessage - входящий конверт от клиента
type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID  string
	conn    *websocket.Conn
	send    chan Event
	manager *Manager
}

func newClient(userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		UserID:  userID,
		conn:    conn,
		send:    make(chan Event, sendBufferSize),
		manager: manager,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("websocket read error", "user_id", c.UserID)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("", "Invalid message format")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {

	case "join_chat":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			c.sendError("", "Invalid join_chat payload")
			return
		}
		if err := c.manager.JoinRoom(c, payload.ChatID); err != nil {
			c.sendError(payload.ChatID, "Cannot join chat")
			return
		}
		c.trySend(Event{Event: "joined", ChatID: payload.ChatID})

	case "leave_chat":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			c.sendError("", "Invalid leave_chat payload")
			return
		}
		c.manager.LeaveRoom(c, payload.ChatID)

	case "send_message":
		var payload struct {
			ChatID string `json:"chat_id"`
			Text   string `json:"text"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			c.sendError("", "Invalid send_message payload")
			return
		}
		// Рассылку по комнате делает сам сервис через Broadcaster
		if _, err := c.manager.chatService.SendMessage(payload.ChatID, c.UserID, payload.Text); err != nil {
			c.sendError(payload.ChatID, "Failed to send message")
		}

	case "mark_read":
		var payload struct {
			ChatID string `json:"chat_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ChatID == "" {
			c.sendError("", "Invalid mark_read payload")
			return
		}
		if err := c.manager.chatService.MarkRead(payload.ChatID, c.UserID); err != nil {
			c.sendError(payload.ChatID, "Failed to mark messages as read")
		}

	default:
		c.sendError("", "Unknown action: "+msg.Action)
	}
}

func (c *Client) sendError(chatID, message string) {
	c.trySend(Event{Event: "error", ChatID: chatID, Payload: map[string]string{"message": message}})
}

// trySend не блокируется: если буфер клиента забит, событие опускается
func (c *Client) trySend(msg Event) {
	select {
	case c.send <- msg:
	default:
	}
}
