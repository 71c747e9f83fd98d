package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
)

// Server-to-client frames are JSON objects tagged by "type". The set of
// event shapes is closed: adding a variant means adding a type here, so the
// server and its clients cannot drift on field names.

const (
	FrameTypeMessage      = "message"
	FrameTypeNotification = "notification"
)

// Event is the closed set of payloads the dispatcher can push.
type Event interface {
	frameType() string
}

// MessagePayload is the wire shape of a persisted message.
type MessagePayload struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
	ReadBy         []uuid.UUID `json:"read_by"`
}

// NotificationPayload is the wire shape of a persisted notification.
type NotificationPayload struct {
	ID        uuid.UUID `json:"id"`
	ActorID   uuid.UUID `json:"actor_id"`
	Kind      string    `json:"kind"`
	TargetID  string    `json:"target_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageEvent carries a new message plus the sender's display data.
type MessageEvent struct {
	Message MessagePayload     `json:"message"`
	Sender  domain.UserDisplay `json:"sender"`
}

func (MessageEvent) frameType() string { return FrameTypeMessage }

// NotificationEvent carries a new notification plus the actor's display data.
type NotificationEvent struct {
	Notification NotificationPayload `json:"notification"`
	Actor        domain.UserDisplay  `json:"actor"`
}

func (NotificationEvent) frameType() string { return FrameTypeNotification }

// EncodeFrame serializes an event into its tagged JSON frame.
func EncodeFrame(e Event) ([]byte, error) {
	switch ev := e.(type) {
	case MessageEvent:
		return json.Marshal(struct {
			Type string `json:"type"`
			MessageEvent
		}{e.frameType(), ev})
	case NotificationEvent:
		return json.Marshal(struct {
			Type string `json:"type"`
			NotificationEvent
		}{e.frameType(), ev})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{e.frameType()})
	}
}

// NewMessagePayload maps a domain message onto its wire shape.
func NewMessagePayload(m domain.Message) MessagePayload {
	return MessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		ReadBy:         m.ReadBy,
	}
}

// NewNotificationPayload maps a domain notification onto its wire shape.
func NewNotificationPayload(n domain.Notification) NotificationPayload {
	p := NotificationPayload{
		ID:        n.ID,
		ActorID:   n.ActorID,
		Kind:      string(n.Kind),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.TargetID.Valid {
		p.TargetID = n.TargetID.UUID.String()
	}
	return p
}
