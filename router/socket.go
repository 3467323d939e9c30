package router

import (
	"context"

	"matchai-service/realtime"
	"matchai-service/socketio"

	"github.com/zishang520/socket.io/v2/socket"
)

// Socket binds every socket.io connection to a relay session. Event names
// are the frame types, the payload is the frame itself.
func Socket(server *socket.Server, relay *realtime.Relay) {
	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		session := relay.Open(socketio.NewChannel(client), socketio.VerifiedUser(client))

		for _, name := range realtime.InboundEvents {
			event := name
			client.On(event, func(args ...interface{}) {
				session.Dispatch(context.Background(), event, socketio.Payload(args))
			})
		}

		client.On("disconnect", func(args ...interface{}) {
			session.Close()
		})
	})
}
