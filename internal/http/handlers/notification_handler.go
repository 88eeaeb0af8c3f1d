// README: Notification inbox queries and the live WebSocket attach point.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"eats/internal/modules/notification"
	"eats/internal/types"
)

type NotificationHandler struct {
	notifications *notification.Service
	registry      *notification.Registry
	upgrader      websocket.Upgrader
	log           zerolog.Logger
}

func NewNotificationHandler(svc *notification.Service, registry *notification.Registry, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: svc,
		registry:      registry,
		upgrader: websocket.Upgrader{
			// Dashboards are served from other origins; auth happens at the
			// gateway in front of this service.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *NotificationHandler) VendorInbox(c *gin.Context) {
	out, err := h.notifications.ByVendor(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) RiderInbox(c *gin.Context) {
	out, err := h.notifications.ByRider(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Stream upgrades the request and parks the connection in the registry
// until the peer goes away.
func (h *NotificationHandler) Stream(c *gin.Context) {
	actorID := types.ID(c.Param("actorId"))
	if actorID == "" {
		writeError(c, http.StatusBadRequest, "missing actor id")
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Warn().Err(err).Str("actor", string(actorID)).Msg("websocket upgrade failed")
		return
	}
	h.registry.Register(actorID, conn)

	go func() {
		defer func() {
			h.registry.Unregister(actorID, conn)
			_ = conn.Close()
		}()
		for {
			// Drain control frames; the channel is server-to-client only.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
