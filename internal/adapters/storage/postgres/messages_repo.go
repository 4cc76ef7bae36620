package postgres

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"buddymatch/internal/domain/messages"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Create(ctx context.Context, m messages.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, content, created_at, read_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.Content,
		m.CreatedAt,
		m.ReadAt,
	)
	return err
}

func (r *MessagesRepo) ListThread(ctx context.Context, userID, otherID string) ([]messages.ThreadMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			m.id, m.sender_id, m.receiver_id, m.content, m.created_at, m.read_at,
			u.id, u.name, u.city
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC
	`, userID, otherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messages.ThreadMessage, 0)
	for rows.Next() {
		var tm messages.ThreadMessage
		if err := rows.Scan(
			&tm.ID,
			&tm.SenderID,
			&tm.ReceiverID,
			&tm.Content,
			&tm.CreatedAt,
			&tm.ReadAt,
			&tm.Sender.ID,
			&tm.Sender.Name,
			&tm.Sender.City,
		); err != nil {
			return nil, err
		}
		out = append(out, tm)
	}
	return out, rows.Err()
}

func (r *MessagesRepo) MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET read_at = $3
		WHERE receiver_id = $1 AND sender_id = $2 AND read_at IS NULL
	`, receiverID, senderID, at)
	return err
}

func (r *MessagesRepo) Conversations(ctx context.Context, userID string) ([]messages.Conversation, error) {
	// DISTINCT ON por peer: se queda con el mensaje más reciente de cada uno.
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (peer_id)
			peer_id, u.name, u.city,
			m.content, m.created_at, m.read_at, m.sender_id
		FROM (
			SELECT *,
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS peer_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		) m
		JOIN users u ON u.id = m.peer_id
		ORDER BY peer_id, m.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messages.Conversation, 0)
	for rows.Next() {
		var (
			c        messages.Conversation
			last     messages.LastMessage
			senderID string
		)
		if err := rows.Scan(
			&c.User.ID,
			&c.User.Name,
			&c.User.City,
			&last.Content,
			&last.CreatedAt,
			&last.ReadAt,
			&senderID,
		); err != nil {
			return nil, err
		}
		last.FromMe = senderID == userID
		c.LastMessage = &last
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// DISTINCT ON fija el orden por peer; reordenar por recencia acá.
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out, nil
}
