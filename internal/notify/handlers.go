package notify

import (
	"github.com/Abby966/social-media-API/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub, requireAuth fiber.Handler) {
	r.Get("/ws", requireAuth, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		return websocket.New(func(conn *websocket.Conn) {
			client := hub.Register(userID)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for msg := range client.Send {
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				}
			}()

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
			// Unregister closes Send, which ends the writer.
			hub.Unregister(client)
			<-done
		})(c)
	})
}
