package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/domain/messages"
)

type messageRepo struct {
	mu   sync.RWMutex
	byID map[string]messages.Message

	accounts accounts.Repository
}

func NewMessageRepo(accountRepo accounts.Repository) messages.Repository {
	return &messageRepo{
		byID:     make(map[string]messages.Message),
		accounts: accountRepo,
	}
}

func (r *messageRepo) Create(ctx context.Context, m messages.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("message id required")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *messageRepo) ListThread(ctx context.Context, userID, otherID string) ([]messages.ThreadMessage, error) {
	r.mu.RLock()
	thread := make([]messages.Message, 0)
	for _, m := range r.byID {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			thread = append(thread, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})

	out := make([]messages.ThreadMessage, 0, len(thread))
	for _, m := range thread {
		sender, err := r.accounts.GetByID(ctx, m.SenderID)
		if err != nil {
			return nil, err
		}
		out = append(out, messages.ThreadMessage{
			Message: m,
			Sender:  messages.PeerSummary{ID: sender.ID, Name: sender.Name, City: sender.City},
		})
	}
	return out, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.byID {
		if m.ReceiverID == receiverID && m.SenderID == senderID && m.ReadAt == nil {
			t := at
			m.ReadAt = &t
			r.byID[id] = m
		}
	}
	return nil
}

func (r *messageRepo) Conversations(ctx context.Context, userID string) ([]messages.Conversation, error) {
	r.mu.RLock()
	last := make(map[string]messages.Message) // peerID -> mensaje más reciente
	for _, m := range r.byID {
		var peer string
		switch userID {
		case m.SenderID:
			peer = m.ReceiverID
		case m.ReceiverID:
			peer = m.SenderID
		default:
			continue
		}
		if prev, ok := last[peer]; !ok || m.CreatedAt.After(prev.CreatedAt) {
			last[peer] = m
		}
	}
	r.mu.RUnlock()

	out := make([]messages.Conversation, 0, len(last))
	for peerID, m := range last {
		peer, err := r.accounts.GetByID(ctx, peerID)
		if err != nil {
			continue // cuenta borrada
		}
		out = append(out, messages.Conversation{
			User: messages.PeerSummary{ID: peer.ID, Name: peer.Name, City: peer.City},
			LastMessage: &messages.LastMessage{
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
				ReadAt:    m.ReadAt,
				FromMe:    m.SenderID == userID,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out, nil
}
