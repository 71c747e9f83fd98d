package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jadeja143/ghost/internal/domain"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type PostgresConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO conversations (id, title, is_group, created_by, created_at, last_message_at, is_muted, muted_until, read_receipt_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		c.ID, c.Title, c.IsGroup, c.CreatedBy, c.CreatedAt, c.LastMessageAt, c.IsMuted, c.MutedUntil, c.ReadReceiptEnabled,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ghost_errors.ErrAlreadyExists
		}
		return err
	}

	for i, userID := range c.ParticipantIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id, position) VALUES ($1, $2, $3)`,
			c.ID, userID, i,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ghost_errors.ErrInvalidParticipants
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	query := `
		SELECT id, title, is_group, created_by, created_at, last_message_at, is_muted, muted_until, read_receipt_enabled
		FROM conversations WHERE id = $1
	`
	var c domain.Conversation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.IsGroup, &c.CreatedBy, &c.CreatedAt, &c.LastMessageAt, &c.IsMuted, &c.MutedUntil, &c.ReadReceiptEnabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, ghost_errors.ErrNotFound
		}
		return domain.Conversation{}, err
	}

	c.ParticipantIDs, err = r.participantIDs(ctx, id)
	if err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) participantIDs(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM conversation_participants WHERE conversation_id = $1 ORDER BY position`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSummaries returns the user's conversations ordered by last activity,
// newest first, each joined with its latest message and the number of
// messages the user has not read. Conversations without messages fall back
// to creation time for ordering.
func (r *PostgresConversationRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error) {
	query := `
		SELECT c.id, c.title, c.is_group, c.created_by, c.created_at, c.last_message_at,
		       c.is_muted, c.muted_until, c.read_receipt_enabled
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE p.user_id = $1
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.ConversationSummary
	var convIDs []uuid.UUID
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.IsGroup, &c.CreatedBy, &c.CreatedAt, &c.LastMessageAt, &c.IsMuted, &c.MutedUntil, &c.ReadReceiptEnabled); err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ConversationSummary{Conversation: c})
		convIDs = append(convIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	participants, err := r.participantsFor(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	lastMessages, err := r.lastMessagesFor(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := r.unreadCountsFor(ctx, convIDs, userID)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		id := summaries[i].Conversation.ID
		summaries[i].Conversation.ParticipantIDs = participants[id]
		summaries[i].LastMessage = lastMessages[id]
		summaries[i].UnreadCount = unread[id]
	}
	return summaries, nil
}

func (r *PostgresConversationRepository) participantsFor(ctx context.Context, convIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT conversation_id, user_id FROM conversation_participants
		 WHERE conversation_id = ANY($1) ORDER BY conversation_id, position`,
		convIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]uuid.UUID, len(convIDs))
	for rows.Next() {
		var convID, userID uuid.UUID
		if err := rows.Scan(&convID, &userID); err != nil {
			return nil, err
		}
		out[convID] = append(out[convID], userID)
	}
	return out, rows.Err()
}

func (r *PostgresConversationRepository) lastMessagesFor(ctx context.Context, convIDs []uuid.UUID) (map[uuid.UUID]*domain.Message, error) {
	query := `
		SELECT DISTINCT ON (conversation_id)
		       id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = ANY($1)
		ORDER BY conversation_id, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, convIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*domain.Message)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msg := m
		out[m.ConversationID] = &msg
	}
	return out, rows.Err()
}

func (r *PostgresConversationRepository) unreadCountsFor(ctx context.Context, convIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT m.conversation_id, COUNT(*)
		FROM messages m
		WHERE m.conversation_id = ANY($1)
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads r
			WHERE r.message_id = m.id AND r.user_id = $2
		  )
		GROUP BY m.conversation_id
	`
	rows, err := r.db.Query(ctx, query, convIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var convID uuid.UUID
		var count int
		if err := rows.Scan(&convID, &count); err != nil {
			return nil, err
		}
		out[convID] = count
	}
	return out, rows.Err()
}

func (r *PostgresConversationRepository) BumpLastMessageAt(ctx context.Context, id uuid.UUID, at sql.NullTime) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ghost_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) SetMute(ctx context.Context, id uuid.UUID, muted bool, until sql.NullTime) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE conversations SET is_muted = $2, muted_until = $3 WHERE id = $1`,
		id, muted, until,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ghost_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) SetReadReceiptEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE conversations SET read_receipt_enabled = $2 WHERE id = $1`,
		id, enabled,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ghost_errors.ErrNotFound
	}
	return nil
}
