package httpdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
)

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	Sender         domain.UserDisplay `json:"sender"`
	Content        string             `json:"content"`
	CreatedAt      time.Time          `json:"created_at"`
	ReadBy         []string           `json:"read_by"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

func FromMessage(m domain.Message, displays map[uuid.UUID]domain.UserDisplay) MessageResponse {
	resp := MessageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		ReadBy:         make([]string, 0, len(m.ReadBy)),
	}
	if d, ok := displays[m.SenderID]; ok {
		resp.Sender = d
	} else {
		resp.Sender = domain.UserDisplay{ID: m.SenderID}
	}
	for _, id := range m.ReadBy {
		resp.ReadBy = append(resp.ReadBy, id.String())
	}
	return resp
}

func FromMessageSlice(messages []domain.Message, displays map[uuid.UUID]domain.UserDisplay) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, FromMessage(m, displays))
	}
	return out
}
