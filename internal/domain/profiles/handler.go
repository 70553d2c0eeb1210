package profiles

import (
	"encoding/json"
	"net/http"
	"time"

	"kaniu/internal/middleware"
	"kaniu/internal/platform/apierror"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/profile", getMyProfileHandler(svc))
	r.Put("/me/profile", upsertMyProfileHandler(svc))
}

type upsertProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func getMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func upsertMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		var req upsertProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err))
			return
		}
		// Si el cliente no manda email usamos el del token.
		if req.Email == "" {
			req.Email = claims.Email
		}

		p, err := svc.Upsert(r.Context(), claims.UserID, UpsertInput{
			Name:      req.Name,
			Email:     req.Email,
			Role:      req.Role,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func ToResponse(p Profile) Response {
	return Response{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
