package socketio

import (
	"encoding/json"
	"sync"
	"time"

	"matchai-service/config"
	"matchai-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io/v2/socket"
)

// Init mounts a socket.io server on /socket.io/. A valid access token in
// the handshake query is resolved and kept as the socket data.
func Init(app *fiber.App) *socket.Server {
	log.DEBUG = config.Bool("SOCKET_DEBUG", false)

	options := socket.DefaultServerOptions()
	options.SetServeClient(false)
	options.SetAllowEIO3(true)
	options.SetPingInterval(config.Duration("SOCKET_PING_INTERVAL", 25*time.Second))
	options.SetPingTimeout(config.Duration("SOCKET_PING_TIMEOUT", 20*time.Second))
	options.SetMaxHttpBufferSize(1000000)
	options.SetConnectTimeout(10 * time.Second)

	server := socket.NewServer(nil, nil)

	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		if token, ok := client.Conn().Request().Query().Get("token"); ok {
			if id, err := utils.UserIDFromAccessToken(token); err == nil {
				client.SetData(id)
			}
		}

		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

// VerifiedUser returns the id resolved from the handshake token, 0 if none.
func VerifiedUser(client *socket.Socket) uint {
	id, _ := client.Data().(uint)
	return id
}

// Payload turns the first event argument back into JSON.
func Payload(args []any) []byte {
	if len(args) == 0 {
		return nil
	}
	switch v := args[0].(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return raw
	}
}

// Channel adapts a socket.io socket to the relay.
type Channel struct {
	client *socket.Socket
	mu     sync.Mutex
}

func NewChannel(client *socket.Socket) *Channel {
	return &Channel{client: client}
}

func (c *Channel) ID() string {
	return "sio:" + string(c.client.Id())
}

func (c *Channel) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.client.Emit(event, payload)
}

func (c *Channel) Close() error {
	c.client.Disconnect(true)
	return nil
}
