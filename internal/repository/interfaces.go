package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
)

// UserRepository persists user identities and display data.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// ConversationRepository persists conversations and their participant sets.
type ConversationRepository interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error)
	BumpLastMessageAt(ctx context.Context, id uuid.UUID, at sql.NullTime) error
	SetMute(ctx context.Context, id uuid.UUID, muted bool, until sql.NullTime) error
	SetReadReceiptEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

// MessageRepository persists messages and their read-sets. Read-set growth
// is monotonic; a read row, once written, is never removed.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	MarkAllRead(ctx context.Context, conversationID, userID uuid.UUID) error
}

// NotificationRepository persists notification records. MarkRead is scoped
// to the owning recipient and reports ErrNotFound for anyone else's rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}
