package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"taskboard/domain/ports"
	"taskboard/domain/services"
	hub "taskboard/infrastructure/websocket"
	"taskboard/pkg/logger"
	"taskboard/pkg/utils"
)

// clientMessage is what connected clients send us: channel management and
// keepalive. Everything else flows server-to-client as ports.Event.
type clientMessage struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId,omitempty"`
}

type WebSocketHandler struct {
	hub            *hub.Hub
	projectService services.ProjectService
	jwtSecret      string
}

func NewWebSocketHandler(h *hub.Hub, projectService services.ProjectService, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            h,
		projectService: projectService,
		jwtSecret:      jwtSecret,
	}
}

// Upgrade authenticates the connection before it is upgraded. The token
// comes from the Authorization header or, since browsers cannot set
// headers on websocket requests, a "token" query parameter. Connections
// that fail authentication are rejected and never reach the hub.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		tokenString = utils.ExtractTokenFromHeader(c.Get("Authorization"))
	}
	if tokenString == "" {
		return utils.UnauthorizedResponse(c, "Missing authentication token")
	}

	user, err := utils.ValidateToken(tokenString, h.jwtSecret)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Invalid or expired token")
	}

	c.Locals("user", user)
	return c.Next()
}

// Handle runs the read loop for one authenticated connection. The user
// channel subscription is implicit in registration; project channels are
// joined and left on request, after a membership check.
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	user, ok := c.Locals("user").(*utils.UserContext)
	if !ok {
		_ = c.Close()
		return
	}

	client := h.hub.Register(user.ID, c)
	defer h.hub.Unregister(client)

	logger.Info("websocket connected", "user_id", user.ID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(client, "invalid message")
			continue
		}

		switch msg.Type {
		case "joinProject":
			h.handleJoin(client, user.ID, msg.ProjectID)
		case "leaveProject":
			projectID, err := uuid.Parse(msg.ProjectID)
			if err != nil {
				h.sendError(client, "invalid project id")
				continue
			}
			h.hub.LeaveProject(client, projectID)
			h.sendAck(client, "leftProject", projectID)
		case "ping":
			_ = client.Send(ports.Event{Type: "pong"})
		default:
			h.sendError(client, "unknown message type")
		}
	}

	logger.Info("websocket disconnected", "user_id", user.ID)
}

// handleJoin verifies the user can see the project before subscribing the
// connection to its channel. Non-members get the same error as a project
// that does not exist.
func (h *WebSocketHandler) handleJoin(client *hub.Client, userID uuid.UUID, rawProjectID string) {
	projectID, err := uuid.Parse(rawProjectID)
	if err != nil {
		h.sendError(client, "invalid project id")
		return
	}

	if _, err := h.projectService.Get(context.Background(), userID, projectID); err != nil {
		h.sendError(client, "project not found")
		return
	}

	h.hub.JoinProject(client, projectID)
	h.sendAck(client, "joinedProject", projectID)
}

func (h *WebSocketHandler) sendAck(client *hub.Client, eventType string, projectID uuid.UUID) {
	_ = client.Send(ports.Event{
		Type:    eventType,
		Payload: fiber.Map{"projectId": projectID},
	})
}

func (h *WebSocketHandler) sendError(client *hub.Client, message string) {
	_ = client.Send(ports.Event{
		Type:    "error",
		Payload: fiber.Map{"message": message},
	})
}
