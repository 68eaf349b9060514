package ws

import (
	"net/http"
	"strings"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Браузерный клиент ходит с другого origin
		return true
	},
}

type Handler struct {
	manager *Manager
	tokens  *auth.TokenService
}

func NewHandler(manager *Manager, tokens *auth.TokenService) *Handler {
	return &Handler{manager: manager, tokens: tokens}
}

// ServeWS - GET /ws
// Аутентификация до upgrade: access-токен берется из query-параметра
// token (браузерный WebSocket не умеет ставить заголовки) либо из
// Authorization: Bearer.
func (h *Handler) ServeWS(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
		return
	}

	claims, err := h.tokens.ParseAccessToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed", "user_id", claims.UserID)
		return
	}

	client := newClient(claims.UserID, conn, h.manager)
	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
