package services

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type MessageService struct {
	repo      repository.MessageRepository
	convRepo  repository.ConversationRepository
	userRepo  repository.UserRepository
	pusher    EventPusher
	presence  PresenceReader
	maxLength int
}

func NewMessageService(
	repo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	pusher EventPusher,
	presence PresenceReader,
	maxLength int,
) *MessageService {
	if maxLength <= 0 {
		maxLength = 4000
	}
	return &MessageService{
		repo:      repo,
		convRepo:  convRepo,
		userRepo:  userRepo,
		pusher:    pusher,
		presence:  presence,
		maxLength: maxLength,
	}
}

// Send persists a message with its read-set initialized to the sender,
// bumps the conversation's last activity, then fans the message out to
// every other participant's live socket. The push is a hint: its outcome
// never affects the result.
func (s *MessageService) Send(ctx context.Context, senderID, conversationID uuid.UUID, content string) (domain.Message, domain.UserDisplay, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return domain.Message{}, domain.UserDisplay{}, err
	}
	if !conv.HasParticipant(senderID) {
		return domain.Message{}, domain.UserDisplay{}, ghost_errors.ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > s.maxLength {
		return domain.Message{}, domain.UserDisplay{}, ghost_errors.ErrInvalidContent
	}

	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
		ReadBy:         []uuid.UUID{senderID},
	}
	if err := s.repo.Create(ctx, &msg); err != nil {
		return domain.Message{}, domain.UserDisplay{}, err
	}

	if err := s.convRepo.BumpLastMessageAt(ctx, conversationID, sql.NullTime{Time: msg.CreatedAt, Valid: true}); err != nil {
		return domain.Message{}, domain.UserDisplay{}, err
	}

	displays, err := loadDisplays(ctx, s.userRepo, s.presence, []uuid.UUID{senderID})
	if err != nil {
		return domain.Message{}, domain.UserDisplay{}, err
	}
	sender := displays[senderID]

	if s.pusher != nil {
		for _, participantID := range conv.ParticipantIDs {
			if participantID != senderID {
				s.pusher.PushMessage(participantID, msg, sender)
			}
		}
	}

	return msg, sender, nil
}

// GetMessages returns the conversation's messages in chronological order
// and, as a side effect, credits the requester with having read all of
// them. Viewing a thread acknowledges every message in it, not just the
// newest; the returned read-sets reflect the state before this call.
func (s *MessageService) GetMessages(ctx context.Context, conversationID, requesterID uuid.UUID) ([]domain.Message, map[uuid.UUID]domain.UserDisplay, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, nil, ghost_errors.ErrForbidden
	}

	messages, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.MarkAllRead(ctx, conversationID, requesterID); err != nil {
		return nil, nil, err
	}

	displays, err := loadDisplays(ctx, s.userRepo, s.presence, conv.ParticipantIDs)
	if err != nil {
		return nil, nil, err
	}
	return messages, displays, nil
}
