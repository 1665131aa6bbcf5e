package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"room-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions with the append-only message log.
type MessageRepository interface {
	Append(ctx context.Context, from, to, text, msgType, timestamp string) (models.Message, error)
	ListVisibleTo(ctx context.Context, viewer string, limit int) ([]models.Message, error)
	Get(ctx context.Context, messageID string) (models.Message, error)
	UpdateText(ctx context.Context, messageID, text, timestamp string) error
	Delete(ctx context.Context, messageID string) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append stores a new message with a server-assigned id.
func (r *MessageRepo) Append(ctx context.Context, from, to, text, msgType, timestamp string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (id, from_name, to_name, text, type, time)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, seq, from_name, to_name, text, type, time`,
		uuid.NewString(), from, to, text, msgType, timestamp).
		Scan(&msg.ID, &msg.Seq, &msg.From, &msg.To, &msg.Text, &msg.Type, &msg.Time)
	return msg, err
}

// ListVisibleTo returns, in insertion order, every message the viewer may see:
// their own, those addressed to them, and all broadcast or status messages.
// A positive limit keeps only the last limit rows of the filtered sequence;
// the slice happens after filtering, not on the raw log.
func (r *MessageRepo) ListVisibleTo(ctx context.Context, viewer string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	if limit > 0 {
		query := `SELECT id, seq, from_name, to_name, text, type, time FROM (
                SELECT id, seq, from_name, to_name, text, type, time FROM messages
                WHERE from_name=$1 OR to_name=$1 OR type IN ('message', 'status')
                ORDER BY seq DESC LIMIT $2
            ) tail ORDER BY seq ASC`
		err := r.db.SelectContext(ctx, &msgs, query, viewer, limit)
		return msgs, err
	}
	query := `SELECT id, seq, from_name, to_name, text, type, time FROM messages
        WHERE from_name=$1 OR to_name=$1 OR type IN ('message', 'status')
        ORDER BY seq ASC`
	err := r.db.SelectContext(ctx, &msgs, query, viewer)
	return msgs, err
}

// Get retrieves a single message.
func (r *MessageRepo) Get(ctx context.Context, messageID string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, seq, from_name, to_name, text, type, time FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// UpdateText mutates only the text and display time of an existing message.
// Identity, author and recipient are immutable after creation.
func (r *MessageRepo) UpdateText(ctx context.Context, messageID, text, timestamp string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET text=$2, time=$3 WHERE id=$1`, messageID, text, timestamp)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes a message permanently.
func (r *MessageRepo) Delete(ctx context.Context, messageID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
