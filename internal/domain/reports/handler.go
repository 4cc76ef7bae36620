package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/reports (solo creación, auth requerida).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/reports", createReportHandler(svc))
}

type createReportRequest struct {
	Type     string `json:"type" enums:"user,post"`
	TargetID string `json:"targetId"`
	Reason   string `json:"reason"`
	PostID   string `json:"postId"`
}

type reportResponse struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporterId"`
	Type       string    `json:"type"`
	TargetID   string    `json:"targetId"`
	Reason     *string   `json:"reason"`
	PostID     *string   `json:"postId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func createReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		rep, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Type:     req.Type,
			TargetID: req.TargetID,
			Reason:   req.Reason,
			PostID:   req.PostID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.WriteError(w, http.StatusBadRequest, "type (user|post) and targetId required")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, reportResponse{
			ID:         rep.ID,
			ReporterID: rep.ReporterID,
			Type:       string(rep.Type),
			TargetID:   rep.TargetID,
			Reason:     rep.Reason,
			PostID:     rep.PostID,
			CreatedAt:  rep.CreatedAt,
		})
	}
}
