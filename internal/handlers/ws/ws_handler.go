// internal/handlers/ws/ws_handler.go
package ws

import (
	"net/http"
	"time"

	"jobmatch-service/internal/pkg/response"
	"jobmatch-service/internal/pkg/token"
	wshub "jobmatch-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *wshub.Hub
	codec    *token.Codec
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(hub *wshub.Hub, codec *token.Codec, allowedOrigin string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:   hub,
		codec: codec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated request to a notification push
// socket. The session cookie rides along on the upgrade request, so the same
// credential that gates pages gates the socket.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	claims := h.codec.Resolve(c.Request)
	if claims == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := wshub.NewClient(h.hub, conn, claims.UserID)
	client.Start()

	h.logger.Info("websocket client connected",
		zap.String("user_id", claims.UserID),
	)
}

// GetStats returns connection statistics (admin)
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"connected_users": h.hub.ConnectedUsers(),
		"timestamp":       time.Now(),
	}

	response.Success(c, http.StatusOK, "websocket stats", stats)
}
