package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table. Participants are kept
// ordered and duplicate-free; membership gates every read and write.
type Conversation struct {
	ID                 uuid.UUID
	Title              sql.NullString
	IsGroup            bool
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	LastMessageAt      sql.NullTime
	IsMuted            bool
	MutedUntil         sql.NullTime
	ReadReceiptEnabled bool

	ParticipantIDs []uuid.UUID
}

// HasParticipant reports whether userID is in the participant set.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MutedNow reports the effective mute state at time now. An until-timestamp
// in the past means the mute has lapsed.
func (c Conversation) MutedNow(now time.Time) bool {
	if !c.IsMuted {
		return false
	}
	if c.MutedUntil.Valid {
		return now.Before(c.MutedUntil.Time)
	}
	return true
}

// ConversationSummary is a conversation joined with the data the list
// endpoint needs: the newest message and the caller's unread count.
type ConversationSummary struct {
	Conversation Conversation
	LastMessage  *Message
	UnreadCount  int
}
