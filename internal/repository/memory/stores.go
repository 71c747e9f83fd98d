// Package memory provides in-memory implementations of the repository
// interfaces. They back service and handler tests that need no Postgres.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]domain.User)}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return ghost_errors.ErrAlreadyExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ghost_errors.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, ghost_errors.ErrNotFound
}

func (s *UserStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []domain.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]domain.Conversation
	messages      *MessageStore
}

// NewConversationStore builds a conversation store. The message store is
// consulted for last messages and unread counts when listing summaries.
func NewConversationStore(messages *MessageStore) *ConversationStore {
	return &ConversationStore{
		conversations: make(map[uuid.UUID]domain.Conversation),
		messages:      messages,
	}
}

func (s *ConversationStore) Create(ctx context.Context, c *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[c.ID]; ok {
		return ghost_errors.ErrAlreadyExists
	}
	s.conversations[c.ID] = cloneConversation(*c)
	return nil
}

func (s *ConversationStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok {
		return domain.Conversation{}, ghost_errors.ErrNotFound
	}
	return cloneConversation(c), nil
}

func (s *ConversationStore) ListSummaries(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error) {
	s.mu.RLock()
	var owned []domain.Conversation
	for _, c := range s.conversations {
		if c.HasParticipant(userID) {
			owned = append(owned, cloneConversation(c))
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		return activityTime(owned[i]).After(activityTime(owned[j]))
	})

	summaries := make([]domain.ConversationSummary, 0, len(owned))
	for _, c := range owned {
		last, unread := s.messages.summaryFor(c.ID, userID)
		summaries = append(summaries, domain.ConversationSummary{
			Conversation: c,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return summaries, nil
}

func (s *ConversationStore) BumpLastMessageAt(ctx context.Context, id uuid.UUID, at sql.NullTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return ghost_errors.ErrNotFound
	}
	c.LastMessageAt = at
	s.conversations[id] = c
	return nil
}

func (s *ConversationStore) SetMute(ctx context.Context, id uuid.UUID, muted bool, until sql.NullTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return ghost_errors.ErrNotFound
	}
	c.IsMuted = muted
	c.MutedUntil = until
	s.conversations[id] = c
	return nil
}

func (s *ConversationStore) SetReadReceiptEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return ghost_errors.ErrNotFound
	}
	c.ReadReceiptEnabled = enabled
	s.conversations[id] = c
	return nil
}

type MessageStore struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{messages: make(map[uuid.UUID][]domain.Message)}
}

func (s *MessageStore) Create(ctx context.Context, m *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], cloneMessage(*m))
	return nil
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.messages[conversationID]
	out := make([]domain.Message, 0, len(stored))
	for _, m := range stored {
		out = append(out, cloneMessage(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MessageStore) MarkAllRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.messages[conversationID]
	for i := range stored {
		if !stored[i].ReadByUser(userID) {
			stored[i].ReadBy = append(stored[i].ReadBy, userID)
		}
	}
	return nil
}

func (s *MessageStore) summaryFor(conversationID, userID uuid.UUID) (*domain.Message, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.messages[conversationID]
	var last *domain.Message
	unread := 0
	for i := range stored {
		if last == nil || stored[i].CreatedAt.After(last.CreatedAt) {
			m := cloneMessage(stored[i])
			last = &m
		}
		if !stored[i].ReadByUser(userID) {
			unread++
		}
	}
	return last, unread
}

type NotificationStore struct {
	mu            sync.RWMutex
	notifications []domain.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(owned) {
		return nil, nil
	}
	end := start + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return nil
		}
	}
	return ghost_errors.ErrNotFound
}

// All returns every stored notification. Test helper.
func (s *NotificationStore) All() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func cloneConversation(c domain.Conversation) domain.Conversation {
	c.ParticipantIDs = append([]uuid.UUID(nil), c.ParticipantIDs...)
	return c
}

func cloneMessage(m domain.Message) domain.Message {
	m.ReadBy = append([]uuid.UUID(nil), m.ReadBy...)
	return m
}

func activityTime(c domain.Conversation) time.Time {
	if c.LastMessageAt.Valid {
		return c.LastMessageAt.Time
	}
	return c.CreatedAt
}
