package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	hub "github.com/wanjiru256/mentor_connect/websocket"
)

// WebsocketUpgrade gates the push endpoint to real upgrade requests.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		c.Locals("user_id", claims["user_id"].(string))
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServePush registers the connection with the hub and holds it open until the
// client goes away. The hub writes notification events; the read loop only
// exists to detect disconnects.
var ServePush = websocket.New(func(conn *websocket.Conn) {
	userID, err := uuid.Parse(conn.Locals("user_id").(string))
	if err != nil {
		conn.Close()
		return
	}

	client := &hub.Client{UserID: userID, Conn: conn}
	hub.Register <- client
	defer func() {
		hub.Unregister <- client
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
})
