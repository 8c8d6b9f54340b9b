package handler

import (
	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/internal/pkg/serverutils"
	internalWS "spark-journal-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// WsHandler upgrades authenticated editor sessions onto the spark hub.
type WsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewWsHandler(hub *internalWS.Hub, log logger.ILogger) *WsHandler {
	return &WsHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer. Browsers cannot set
// headers on the handshake, so the token also rides a query param.
func (h *WsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")

	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return serverutils.JwtSecret(), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("WsHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("WsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("WsHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
