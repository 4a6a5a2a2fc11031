package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	websocketHandler "taskboard/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, wsHandler *websocketHandler.WebSocketHandler) {
	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws", websocket.New(wsHandler.Handle))
}
