package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table. Content is immutable after
// creation; only the read-set grows.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	CreatedAt      time.Time

	// ReadBy always contains at least the sender and never exceeds the
	// conversation's participant set.
	ReadBy []uuid.UUID
}

// ReadByUser reports whether userID is in the message's read-set.
func (m Message) ReadByUser(userID uuid.UUID) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
