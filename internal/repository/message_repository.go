package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jadeja143/ghost/internal/domain"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type PostgresMessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Create inserts the message together with its initial read rows. The
// read-set always starts with the sender, so both writes share a
// transaction.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ghost_errors.ErrAlreadyExists
		}
		return err
	}

	for _, userID := range m.ReadBy {
		_, err = tx.Exec(ctx,
			`INSERT INTO message_reads (message_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			m.ID, userID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByConversation returns all messages in chronological order with their
// read-sets attached.
func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, conversation_id, sender_id, content, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		index[m.ID] = len(messages)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return messages, nil
	}

	readRows, err := r.db.Query(ctx,
		`SELECT r.message_id, r.user_id
		 FROM message_reads r
		 JOIN messages m ON m.id = r.message_id
		 WHERE m.conversation_id = $1
		 ORDER BY r.read_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer readRows.Close()

	for readRows.Next() {
		var messageID, userID uuid.UUID
		if err := readRows.Scan(&messageID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[messageID]; ok {
			messages[i].ReadBy = append(messages[i].ReadBy, userID)
		}
	}
	return messages, readRows.Err()
}

// MarkAllRead credits userID with having read every message in the
// conversation. Existing read rows are untouched, so the call is idempotent.
func (r *PostgresMessageRepository) MarkAllRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO message_reads (message_id, user_id)
		 SELECT m.id, $2 FROM messages m WHERE m.conversation_id = $1
		 ON CONFLICT DO NOTHING`,
		conversationID, userID,
	)
	return err
}
