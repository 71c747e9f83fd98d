package httpdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
)

type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids" binding:"required"`
	Title          string   `json:"title"`
}

type MuteConversationRequest struct {
	ConversationID  string `json:"conversation_id" binding:"required"`
	Mute            *bool  `json:"mute"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ReadReceiptToggleRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

type ConversationResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title,omitempty"`
	IsGroup            bool                 `json:"is_group"`
	CreatedAt          time.Time            `json:"created_at"`
	LastMessageAt      *time.Time           `json:"last_message_at,omitempty"`
	IsMuted            bool                 `json:"is_muted"`
	MutedUntil         *time.Time           `json:"muted_until,omitempty"`
	ReadReceiptEnabled bool                 `json:"read_receipt_enabled"`
	Participants       []domain.UserDisplay `json:"participants"`
}

type ConversationSummaryResponse struct {
	ConversationResponse
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	UnreadCount int              `json:"unread_count"`
}

type ListConversationsResponse struct {
	Conversations []ConversationSummaryResponse `json:"conversations"`
}

type ReadReceiptToggleResponse struct {
	ConversationID     string `json:"conversation_id"`
	ReadReceiptEnabled bool   `json:"read_receipt_enabled"`
}

func FromConversation(c domain.Conversation, displays map[uuid.UUID]domain.UserDisplay) ConversationResponse {
	resp := ConversationResponse{
		ID:      c.ID.String(),
		IsGroup: c.IsGroup,
		// A lapsed until-timestamp reads as unmuted.
		IsMuted:            c.MutedNow(time.Now()),
		CreatedAt:          c.CreatedAt,
		ReadReceiptEnabled: c.ReadReceiptEnabled,
	}
	if c.Title.Valid {
		resp.Title = c.Title.String
	}
	if c.LastMessageAt.Valid {
		t := c.LastMessageAt.Time
		resp.LastMessageAt = &t
	}
	if c.MutedUntil.Valid {
		t := c.MutedUntil.Time
		resp.MutedUntil = &t
	}
	resp.Participants = make([]domain.UserDisplay, 0, len(c.ParticipantIDs))
	for _, id := range c.ParticipantIDs {
		if d, ok := displays[id]; ok {
			resp.Participants = append(resp.Participants, d)
		} else {
			resp.Participants = append(resp.Participants, domain.UserDisplay{ID: id})
		}
	}
	return resp
}

func FromConversationSummary(s domain.ConversationSummary, displays map[uuid.UUID]domain.UserDisplay) ConversationSummaryResponse {
	resp := ConversationSummaryResponse{
		ConversationResponse: FromConversation(s.Conversation, displays),
		UnreadCount:          s.UnreadCount,
	}
	if s.LastMessage != nil {
		m := FromMessage(*s.LastMessage, displays)
		resp.LastMessage = &m
	}
	return resp
}
