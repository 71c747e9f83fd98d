package httpdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
)

type CreateNotificationRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
	TargetID    string `json:"target_id"`
}

type NotificationResponse struct {
	ID        string             `json:"id"`
	Actor     domain.UserDisplay `json:"actor"`
	Kind      string             `json:"kind"`
	TargetID  string             `json:"target_id,omitempty"`
	Read      bool               `json:"read"`
	CreatedAt time.Time          `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
}

func FromNotification(n domain.Notification, displays map[uuid.UUID]domain.UserDisplay) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if d, ok := displays[n.ActorID]; ok {
		resp.Actor = d
	} else {
		resp.Actor = domain.UserDisplay{ID: n.ActorID}
	}
	if n.TargetID.Valid {
		resp.TargetID = n.TargetID.UUID.String()
	}
	return resp
}

func FromNotificationSlice(notifications []domain.Notification, displays map[uuid.UUID]domain.UserDisplay) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, FromNotification(n, displays))
	}
	return out
}
