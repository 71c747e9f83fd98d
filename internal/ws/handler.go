package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Jadeja143/ghost/internal/transport/httpdto"
	"github.com/Jadeja143/ghost/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authenticator resolves a bearer token to a user identity.
type Authenticator interface {
	VerifySocketToken(token string) (uuid.UUID, error)
}

// PresenceTracker records online/offline transitions for display hints.
type PresenceTracker interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Handler upgrades HTTP requests to authenticated sockets and owns the
// connection lifecycle around the registry.
type Handler struct {
	registry *Registry
	auth     Authenticator
	presence PresenceTracker
	logger   *logger.Logger
}

func NewHandler(registry *Registry, auth Authenticator, presence PresenceTracker, l *logger.Logger) *Handler {
	return &Handler{registry: registry, auth: auth, presence: presence, logger: l}
}

// Connect handles GET /ws. The credential travels in the token query
// parameter because browser socket APIs cannot set headers at connect
// time; an invalid or missing token is rejected before the upgrade.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("missing token", "UNAUTHORIZED"))
		return
	}

	userID, err := h.auth.VerifySocketToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid token", "UNAUTHORIZED"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Logger.Error("websocket upgrade failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}

	client := NewClient(conn, userID)
	h.registry.Register(userID, client)
	if h.presence != nil {
		h.presence.SetOnline(c.Request.Context(), userID.String())
	}
	if h.logger != nil {
		h.logger.Logger.Info("client connected", zap.String("user_id", userID.String()))
	}

	go client.writePump()
	go client.readPump(func() {
		removed := h.registry.Unregister(userID, client)
		client.close()
		if !removed {
			// A displaced socket closing after a reconnect; the fresh
			// one owns the presence state now.
			return
		}
		if h.presence != nil {
			h.presence.SetOffline(context.Background(), userID.String())
		}
		if h.logger != nil {
			h.logger.Logger.Info("client disconnected", zap.String("user_id", userID.String()))
		}
	})
}
