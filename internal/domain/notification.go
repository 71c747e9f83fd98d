package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the closed set of actions that produce notifications.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
)

// Valid reports whether k is a known notification kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification represents the notifications table. The read flag flips
// false to true only; rows are retained indefinitely.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ActorID   uuid.UUID
	Kind      NotificationKind
	TargetID  uuid.NullUUID
	Read      bool
	CreatedAt time.Time
}
