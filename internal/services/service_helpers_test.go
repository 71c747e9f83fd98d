package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository/memory"
)

// recordingPusher captures pushes so tests can assert on fan-out targets.
type recordingPusher struct {
	mu            sync.Mutex
	messages      map[uuid.UUID][]domain.Message
	notifications map[uuid.UUID][]domain.Notification
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{
		messages:      make(map[uuid.UUID][]domain.Message),
		notifications: make(map[uuid.UUID][]domain.Notification),
	}
}

func (p *recordingPusher) PushMessage(userID uuid.UUID, m domain.Message, sender domain.UserDisplay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[userID] = append(p.messages[userID], m)
}

func (p *recordingPusher) PushNotification(userID uuid.UUID, n domain.Notification, actor domain.UserDisplay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications[userID] = append(p.notifications[userID], n)
}

func (p *recordingPusher) messagesFor(userID uuid.UUID) []domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Message(nil), p.messages[userID]...)
}

func (p *recordingPusher) notificationsFor(userID uuid.UUID) []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Notification(nil), p.notifications[userID]...)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func seedUser(t *testing.T, store *memory.UserStore, username string) uuid.UUID {
	t.Helper()
	u := domain.User{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: username,
	}
	require.NoError(t, store.Create(context.Background(), &u))
	return u.ID
}
