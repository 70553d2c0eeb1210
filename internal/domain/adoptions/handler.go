package adoptions

import (
	"encoding/json"
	"net/http"
	"time"

	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/middleware"
	"kaniu/internal/platform/apierror"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Dispatcher autenticado: POST crea, PUT actualiza.
	r.HandleFunc("/adoptions", dispatchAdoptionsHandler(svc))

	r.Get("/adoptions/{adoptionID}", getAdoptionHandler(svc))
	r.Get("/me/adoptions", listMyAdoptionsHandler(svc))
	r.Get("/shelters/{shelterID}/adoptions", listShelterAdoptionsHandler(svc))
}

type createAdoptionRequest struct {
	AnimalID string `json:"animal_id"`
	Message  string `json:"message"`
}

type updateAdoptionRequest struct {
	ID      string  `json:"id"`
	Status  Status  `json:"status"`
	Message *string `json:"message"`
}

type Response struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	AdopterID string    `json:"adopter_id"`
	ShelterID string    `json:"shelter_id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Animal  animals.Record     `json:"animal"`
	Adopter *profiles.Response `json:"adopter"`
	Shelter shelters.Response  `json:"shelter"`
}

// dispatchAdoptionsHandler godoc
// @Summary      Pide (POST) o resuelve (PUT) una adopción
// @Description  PUT con status=approved marca el animal como adopted en la misma transacción.
// @Tags         adoptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdoptionRequest  true  "POST: createAdoptionRequest, PUT: updateAdoptionRequest"
// @Success      200   {object}  Response
// @Failure      400   {object}  apierror.Body
// @Failure      401   {object}  apierror.Body
// @Failure      504   {object}  apierror.Body
// @Router       /adoptions [post]
// @Router       /adoptions [put]
func dispatchAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		var (
			view View
			err  error
		)

		claims, err := middleware.RequireClaims(r.Context())
		if err == nil {
			switch r.Method {
			case http.MethodPost:
				view, err = createAdoption(r, svc, claims.UserID)
			case http.MethodPut:
				view, err = updateAdoption(r, svc, claims.UserID)
			default:
				err = apierror.New(apierror.CodeMethodNotAllowed, "method not allowed")
			}
		}

		if err != nil {
			e := apierror.From(err)
			middleware.GetLogger(r.Context()).Warn("adoption write failed", map[string]any{
				"method": r.Method,
				"code":   string(e.Code),
				"err":    err,
			})
			apierror.Write(w, e)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(view))
	}
}

func createAdoption(r *http.Request, svc *Service, principal string) (View, error) {
	var req createAdoptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return View{}, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err)
	}
	return svc.Create(r.Context(), principal, CreateInput{
		AnimalID: req.AnimalID,
		Message:  req.Message,
	})
}

func updateAdoption(r *http.Request, svc *Service, principal string) (View, error) {
	var req updateAdoptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return View{}, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err)
	}
	return svc.Update(r.Context(), principal, UpdateInput{
		ID:      req.ID,
		Status:  req.Status,
		Message: req.Message,
	})
}

func getAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		v, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "adoptionID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(v))
	}
}

func listMyAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		items, err := svc.ListMine(r.Context(), claims.UserID)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func listShelterAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		items, err := svc.ListByShelter(r.Context(), claims.UserID, chi.URLParam(r, "shelterID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func ToResponse(v View) Response {
	out := Response{
		ID:        v.Adoption.ID,
		AnimalID:  v.Adoption.AnimalID,
		AdopterID: v.Adoption.AdopterID,
		ShelterID: v.Adoption.ShelterID,
		Status:    v.Adoption.Status,
		Message:   v.Adoption.Message,
		CreatedAt: v.Adoption.CreatedAt,
		UpdatedAt: v.Adoption.UpdatedAt,
		Animal:    animals.ToRecord(v.Animal),
		Shelter:   shelters.ToResponse(v.Shelter),
	}
	if v.Adopter != nil {
		p := profiles.ToResponse(*v.Adopter)
		out.Adopter = &p
	}
	return out
}

func toResponses(items []View) []Response {
	out := make([]Response, 0, len(items))
	for _, v := range items {
		out = append(out, ToResponse(v))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
