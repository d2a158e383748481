package notificationHandler

import (
	"FarmWatch/internal/entity"
	"context"

	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const presenceTTL = 12 * time.Hour

// Stream keeps one realtime session open per connection. The read loop only
// exists to observe the close; all traffic flows server to client through the
// hub.
func (h *NotificationHandler) Stream(conn *websocket.Conn) {
	userData, ok := conn.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = conn.Close()
		return
	}

	h.hub.Register(userData.ID, conn)
	if err := h.redisServer.SetUserOnline(context.Background(), userData.ID, presenceTTL); err != nil {
		h.log.WithFields(logrus.Fields{
			"user_id": userData.ID,
			"error":   err.Error(),
		}).Warn("Failed to record user presence")
	}

	defer func() {
		h.hub.Unregister(userData.ID, conn)
		if !h.hub.IsOnline(userData.ID) {
			if err := h.redisServer.SetUserOffline(context.Background(), userData.ID); err != nil {
				h.log.WithFields(logrus.Fields{
					"user_id": userData.ID,
					"error":   err.Error(),
				}).Warn("Failed to clear user presence")
			}
		}
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
