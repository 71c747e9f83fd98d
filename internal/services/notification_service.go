package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	pusher   EventPusher
	presence PresenceReader
	pageSize int
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pusher EventPusher,
	presence PresenceReader,
	pageSize int,
) *NotificationService {
	if pageSize <= 0 {
		pageSize = 30
	}
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		pusher:   pusher,
		presence: presence,
		pageSize: pageSize,
	}
}

// Notify records that actor performed kind against recipient and pushes a
// live hint if the recipient is connected. A user acting on their own
// content is never meaningful here, so actor == recipient is suppressed
// entirely: no row, no push.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uuid.UUID, kind domain.NotificationKind, targetID uuid.NullUUID) (*domain.Notification, error) {
	if !kind.Valid() {
		return nil, ghost_errors.ErrInvalidInput
	}
	if recipientID == actorID {
		return nil, nil
	}

	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    recipientID,
		ActorID:   actorID,
		Kind:      kind,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		displays, err := loadDisplays(ctx, s.userRepo, s.presence, []uuid.UUID{actorID})
		if err == nil {
			s.pusher.PushNotification(recipientID, n, displays[actorID])
		}
	}
	return &n, nil
}

// List returns the user's notifications newest first, one bounded page at
// a time, along with actor display data.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page int) ([]domain.Notification, map[uuid.UUID]domain.UserDisplay, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, page, s.pageSize)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	var actorIDs []uuid.UUID
	for _, n := range notifications {
		if _, ok := seen[n.ActorID]; !ok {
			seen[n.ActorID] = struct{}{}
			actorIDs = append(actorIDs, n.ActorID)
		}
	}

	displays, err := loadDisplays(ctx, s.userRepo, s.presence, actorIDs)
	if err != nil {
		return nil, nil, err
	}
	return notifications, displays, nil
}

// MarkRead flips the read flag on the caller's own notification. Marking
// someone else's notification reports ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}
