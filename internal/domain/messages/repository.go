package messages

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m Message) error

	// ListThread: ambas direcciones entre userID y otherID, ascendente por fecha.
	ListThread(ctx context.Context, userID, otherID string) ([]ThreadMessage, error)

	// MarkRead estampa readAt en los no leídos *hacia* receiverID *desde* senderID.
	// La otra dirección no se toca.
	MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) error

	// Conversations: peers distintos con su último mensaje,
	// ordenados del más reciente al más viejo.
	Conversations(ctx context.Context, userID string) ([]Conversation, error)
}
