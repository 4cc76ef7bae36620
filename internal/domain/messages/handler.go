package messages

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/messages (todo con auth requerida).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/messages", func(mr chi.Router) {
		mr.Get("/conversations", conversationsHandler(svc))
		mr.Get("/with/{userID}", threadHandler(svc))
		mr.Post("/", sendHandler(svc))
	})
}

type sendRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type peerResponse struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	City *string `json:"city,omitempty"`
}

type messageResponse struct {
	ID         string       `json:"id"`
	SenderID   string       `json:"senderId"`
	ReceiverID string       `json:"receiverId"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	ReadAt     *time.Time   `json:"readAt"`
	Sender     peerResponse `json:"sender"`
}

type lastMessageResponse struct {
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
	FromMe    bool       `json:"fromMe"`
}

type conversationResponse struct {
	User        peerResponse         `json:"user"`
	LastMessage *lastMessageResponse `json:"lastMessage"`
	Relation    string               `json:"relation"`
}

// conversationsHandler godoc
// @Summary Conversaciones
// @Description Peers con los que hay mensajes, cada uno con su último mensaje y el tag de relación (friend / shared-meetup / none).
// @Tags messages
// @Produce json
// @Success 200 {array} conversationResponse
// @Router /api/messages/conversations [get]
func conversationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		convs, err := svc.Conversations(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]conversationResponse, 0, len(convs))
		for _, c := range convs {
			cr := conversationResponse{
				User:     peerResponse{ID: c.User.ID, Name: c.User.Name, City: c.User.City},
				Relation: string(c.Relation),
			}
			if c.LastMessage != nil {
				cr.LastMessage = &lastMessageResponse{
					Content:   c.LastMessage.Content,
					CreatedAt: c.LastMessage.CreatedAt,
					ReadAt:    c.LastMessage.ReadAt,
					FromMe:    c.LastMessage.FromMe,
				}
			}
			out = append(out, cr)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// threadHandler devuelve el hilo con un peer y marca leídos los mensajes
// recibidos de ese peer (efecto colateral documentado del GET).
func threadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		msgs, err := svc.Thread(r.Context(), claims.UserID, chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func sendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Send(r.Context(), claims.UserID, req.ReceiverID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "receiverId and content required")
			case errors.Is(err, ErrReceiverNotFound):
				httpx.WriteError(w, http.StatusNotFound, "Receiver not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

func toMessageResponse(m ThreadMessage) messageResponse {
	return messageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		ReadAt:     m.ReadAt,
		Sender:     peerResponse{ID: m.Sender.ID, Name: m.Sender.Name},
	}
}
