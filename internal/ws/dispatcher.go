package ws

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/pkg/logger"
)

// Dispatcher pushes events to connected clients. Delivery is best-effort
// and at-most-once: an offline recipient, a dead handle or a full send
// buffer is a silent no-op. The durable row written before the push is what
// guarantees the recipient eventually sees the event over REST.
type Dispatcher struct {
	registry *Registry
	logger   *logger.Logger
}

func NewDispatcher(registry *Registry, l *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: l}
}

// Push serializes the event and offers it to the user's live socket, if
// any. It never blocks, never retries and never returns an error.
func (d *Dispatcher) Push(userID uuid.UUID, event Event) {
	client, ok := d.registry.Lookup(userID)
	if !ok {
		return
	}

	data, err := EncodeFrame(event)
	if err != nil {
		if d.logger != nil {
			d.logger.Logger.Error("encode push frame",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}

	if !client.enqueue(data) && d.logger != nil {
		d.logger.Logger.Warn("push dropped, send buffer full",
			zap.String("user_id", userID.String()))
	}
}

// PushMessage pushes a message event with sender display data.
func (d *Dispatcher) PushMessage(userID uuid.UUID, m domain.Message, sender domain.UserDisplay) {
	d.Push(userID, MessageEvent{Message: NewMessagePayload(m), Sender: sender})
}

// PushNotification pushes a notification event with actor display data.
func (d *Dispatcher) PushNotification(userID uuid.UUID, n domain.Notification, actor domain.UserDisplay) {
	d.Push(userID, NotificationEvent{Notification: NewNotificationPayload(n), Actor: actor})
}
