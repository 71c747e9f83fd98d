package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type ConversationService struct {
	repo     repository.ConversationRepository
	userRepo repository.UserRepository
	presence PresenceReader
}

func NewConversationService(repo repository.ConversationRepository, userRepo repository.UserRepository, presence PresenceReader) *ConversationService {
	return &ConversationService{repo: repo, userRepo: userRepo, presence: presence}
}

// Create builds a conversation from the creator plus the named others. The
// participant set is de-duplicated preserving order, always contains the
// creator, and must end up with at least two members.
func (s *ConversationService) Create(ctx context.Context, creatorID uuid.UUID, otherIDs []uuid.UUID, title string) (domain.Conversation, map[uuid.UUID]domain.UserDisplay, error) {
	participantIDs := dedupeParticipants(creatorID, otherIDs)
	if len(participantIDs) < 2 {
		return domain.Conversation{}, nil, ghost_errors.ErrInvalidParticipants
	}

	title = strings.TrimSpace(title)
	conv := domain.Conversation{
		ID:                 uuid.New(),
		IsGroup:            len(participantIDs) > 2 || title != "",
		CreatedBy:          creatorID,
		CreatedAt:          time.Now(),
		ReadReceiptEnabled: true,
		ParticipantIDs:     participantIDs,
	}
	if title != "" {
		conv.Title = sql.NullString{String: title, Valid: true}
	}

	if err := s.repo.Create(ctx, &conv); err != nil {
		return domain.Conversation{}, nil, err
	}

	displays, err := loadDisplays(ctx, s.userRepo, s.presence, participantIDs)
	if err != nil {
		return domain.Conversation{}, nil, err
	}
	return conv, displays, nil
}

// List returns the user's conversations ordered by last activity, newest
// first, along with display data for every participant that appears.
func (s *ConversationService) List(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, map[uuid.UUID]domain.UserDisplay, error) {
	summaries, err := s.repo.ListSummaries(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, s := range summaries {
		for _, id := range s.Conversation.ParticipantIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	displays, err := loadDisplays(ctx, s.userRepo, s.presence, ids)
	if err != nil {
		return nil, nil, err
	}
	return summaries, displays, nil
}

// Mute silences a conversation, indefinitely when duration is zero or
// until now+duration otherwise. Only participants may mute.
func (s *ConversationService) Mute(ctx context.Context, userID, conversationID uuid.UUID, duration time.Duration) error {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}
	until := sql.NullTime{}
	if duration > 0 {
		until = sql.NullTime{Time: time.Now().Add(duration), Valid: true}
	}
	return s.repo.SetMute(ctx, conversationID, true, until)
}

// Unmute clears the mute state. Only participants may unmute.
func (s *ConversationService) Unmute(ctx context.Context, userID, conversationID uuid.UUID) error {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.repo.SetMute(ctx, conversationID, false, sql.NullTime{})
}

// ToggleReadReceipts flips the per-conversation read-receipt flag and
// returns the new state. Only participants may toggle.
func (s *ConversationService) ToggleReadReceipts(ctx context.Context, userID, conversationID uuid.UUID) (bool, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if !conv.HasParticipant(userID) {
		return false, ghost_errors.ErrForbidden
	}
	enabled := !conv.ReadReceiptEnabled
	if err := s.repo.SetReadReceiptEnabled(ctx, conversationID, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (s *ConversationService) requireParticipant(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return ghost_errors.ErrForbidden
	}
	return nil
}

func dedupeParticipants(creatorID uuid.UUID, otherIDs []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{creatorID: {}}
	out := []uuid.UUID{creatorID}
	for _, id := range otherIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
