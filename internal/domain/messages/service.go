package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/domain/posts"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrReceiverNotFound = errors.New("receiver not found")
)

type Service struct {
	repo        Repository
	accountsSvc *accounts.Service
	postsSvc    *posts.Service
	now         func() time.Time
}

func NewService(repo Repository, accountsSvc *accounts.Service, postsSvc *posts.Service) *Service {
	return &Service{
		repo:        repo,
		accountsSvc: accountsSvc,
		postsSvc:    postsSvc,
		now:         time.Now,
	}
}

func (s *Service) Send(ctx context.Context, senderID, receiverID, content string) (ThreadMessage, error) {
	receiverID = strings.TrimSpace(receiverID)
	content = strings.TrimSpace(content)
	if receiverID == "" || content == "" {
		return ThreadMessage{}, ErrInvalidInput
	}

	receiver, err := s.accountsSvc.GetByID(ctx, receiverID)
	if err != nil {
		return ThreadMessage{}, ErrReceiverNotFound
	}

	m := Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return ThreadMessage{}, err
	}

	sender, err := s.accountsSvc.GetByID(ctx, senderID)
	if err != nil {
		return ThreadMessage{}, err
	}
	return ThreadMessage{
		Message: m,
		Sender:  PeerSummary{ID: sender.ID, Name: sender.Name, City: sender.City},
	}, nil
}

// Thread devuelve el hilo y, como efecto colateral, marca como leídos los
// mensajes que el peer le mandó al caller. Lo devuelto refleja el estado
// previo a la marca (igual que el cliente espera).
func (s *Service) Thread(ctx context.Context, userID, otherID string) ([]ThreadMessage, error) {
	msgs, err := s.repo.ListThread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, userID, otherID, s.now()); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversations anota cada peer con el tag de relación:
// friend > shared-meetup > none.
func (s *Service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	convs, err := s.repo.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range convs {
		convs[i].Relation = RelationNone

		friends, err := s.accountsSvc.AreFriends(ctx, userID, convs[i].User.ID)
		if err != nil {
			return nil, err
		}
		if friends {
			convs[i].Relation = RelationFriend
			continue
		}

		shared, err := s.postsSvc.HaveSharedRSVP(ctx, userID, convs[i].User.ID)
		if err != nil {
			return nil, err
		}
		if shared {
			convs[i].Relation = RelationSharedMeetup
		}
	}
	return convs, nil
}
