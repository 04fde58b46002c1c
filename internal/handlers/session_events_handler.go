package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/internal/sessionhub"
	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

type wsTokenRevoker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionEventsHandler upgrades authenticated clients onto the session hub
// so every open tab of a user sees sign-in, sign-out and profile changes.
type SessionEventsHandler struct {
	hub       *sessionhub.Hub
	revoker   wsTokenRevoker
	jwtSecret string
}

func NewSessionEventsHandler(hub *sessionhub.Hub, revoker wsTokenRevoker, jwtSecret string) *SessionEventsHandler {
	return &SessionEventsHandler{
		hub:       hub,
		revoker:   revoker,
		jwtSecret: jwtSecret,
	}
}

func (h *SessionEventsHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	if h.revoker != nil {
		revoked, err := h.revoker.IsTokenRevoked(c.Context(), claims.ID)
		if err != nil || revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *SessionEventsHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := sessionhub.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *SessionEventsHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
