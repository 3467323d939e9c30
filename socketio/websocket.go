package socketio

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"matchai-service/realtime"
	"matchai-service/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const verifiedUserKey = "verifiedUserId"

type frame struct {
	Type string `json:"type"`
}

// WSChannel writes one JSON object per text frame.
type WSChannel struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWSChannel(conn *websocket.Conn) *WSChannel {
	return &WSChannel{id: "ws:" + uuid.NewString(), conn: conn}
}

func (c *WSChannel) ID() string {
	return c.id
}

func (c *WSChannel) Send(_ string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(payload)
}

func (c *WSChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.Close()
}

// WebSocket mounts the plain websocket transport of the relay on path.
func WebSocket(app *fiber.App, path string, relay *realtime.Relay) {
	app.Use(path, func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if token := c.Query("token"); token != "" {
			if id, err := utils.UserIDFromAccessToken(token); err == nil {
				c.Locals(verifiedUserKey, id)
			}
		}
		return c.Next()
	})

	app.Get(path, websocket.New(func(conn *websocket.Conn) {
		verified, _ := conn.Locals(verifiedUserKey).(uint)
		ch := NewWSChannel(conn)
		session := relay.Open(ch, verified)
		defer session.Close()

		for {
			kind, raw, err := conn.ReadMessage()
			if err != nil {
				slog.Debug("websocket closed", "channel", ch.ID(), "error", err)
				return
			}
			if kind != websocket.TextMessage {
				continue
			}

			var f frame
			if err := json.Unmarshal(raw, &f); err != nil || f.Type == "" {
				slog.Warn("frame dropped", "channel", ch.ID(), "reason", "malformed")
				continue
			}
			session.Dispatch(context.Background(), f.Type, raw)
		}
	}))
}
