package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-services/internal/database"
	"citizen-services/internal/models"
)

// MessageRepository handles staff-to-citizen message persistence.
type MessageRepository struct {
	*database.Repository
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *database.Database, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		Repository: database.NewRepository(db, logger.Named("message_repository")),
	}
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, subject, content, priority, is_read, created_at, read_at)
		VALUES (:id, :sender_id, :recipient_id, :subject, :content, :priority, :is_read, :created_at, :read_at)`

	_, err := r.DB().NamedExecContext(ctx, query, m)
	return mapError(err, "failed to create message")
}

// GetByID retrieves a message by ID.
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message

	query := `
		SELECT id, sender_id, recipient_id, subject, content, priority, is_read, created_at, read_at
		FROM messages
		WHERE id = $1`

	if err := r.DB().GetContext(ctx, &m, query, id); err != nil {
		return nil, mapError(err, "failed to get message")
	}
	return &m, nil
}

// MarkRead sets is_read and read_at, guarded so an already-read message
// is never overwritten. Returns whether the row actually transitioned.
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) (bool, error) {
	query := `UPDATE messages SET is_read = TRUE, read_at = $2 WHERE id = $1 AND is_read = FALSE`

	res, err := r.DB().ExecContext(ctx, query, id, readAt)
	if err != nil {
		return false, mapError(err, "failed to mark message read")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, "failed to read rows affected for message")
	}
	return n > 0, nil
}

// ListByRecipient returns a citizen's received messages, newest first.
func (r *MessageRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Message, error) {
	messages := []models.Message{}

	query := `
		SELECT id, sender_id, recipient_id, subject, content, priority, is_read, created_at, read_at
		FROM messages
		WHERE recipient_id = $1
		ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &messages, query, recipientID); err != nil {
		return nil, mapError(err, "failed to list messages")
	}
	return messages, nil
}

// CountUnread returns the number of unread messages for a recipient.
func (r *MessageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND is_read = FALSE`

	if err := r.DB().GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, mapError(err, "failed to count unread messages")
	}
	return count, nil
}

// ListBySender returns the messages a staff member has sent, newest first.
func (r *MessageRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Message, error) {
	messages := []models.Message{}

	query := `
		SELECT id, sender_id, recipient_id, subject, content, priority, is_read, created_at, read_at
		FROM messages
		WHERE sender_id = $1
		ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &messages, query, senderID); err != nil {
		return nil, mapError(err, "failed to list sent messages")
	}
	return messages, nil
}
