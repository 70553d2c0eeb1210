package animals

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"kaniu/internal/domain/shelters"
	"kaniu/internal/middleware"
	"kaniu/internal/platform/apierror"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	// Dispatcher: POST crea, PUT actualiza, cualquier otro verbo es METHOD_NOT_ALLOWED.
	r.HandleFunc("/animals", dispatchAnimalsHandler(svc))

	r.Get("/animals/available", listAvailableHandler(svc))
	r.Get("/animals/{animalID}", getAnimalHandler(svc))
	r.Delete("/animals/{animalID}", deleteAnimalHandler(svc))
	r.Post("/animals/{animalID}/photo", uploadAnimalPhotoHandler(svc))

	r.Get("/shelters/{shelterID}/animals", listShelterAnimalsHandler(svc))
}

type appearanceRequest struct {
	FurTypeID *int64 `json:"fur_type_id"`
	PatternID *int64 `json:"pattern_id"`
	// null o ausente = no tocar; [] = sin colores.
	Colors *[]int64 `json:"colors"`
}

type createAnimalRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	SpeciesID   int64              `json:"species_id"`
	BreedID     int64              `json:"breed_id"`
	Gender      Gender             `json:"gender"`
	Size        string             `json:"size"`
	BirthDate   string             `json:"birth_date"` // YYYY-MM-DD opcional
	ShelterID   string             `json:"shelter_id"`
	Appearance  *appearanceRequest `json:"appearance"`
}

type updateAnimalRequest struct {
	ID          string             `json:"id"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	SpeciesID   *int64             `json:"species_id"`
	BreedID     *int64             `json:"breed_id"`
	Gender      *Gender            `json:"gender"`
	Size        *string            `json:"size"`
	BirthDate   *string            `json:"birth_date"`
	Status      *Status            `json:"status"`
	Appearance  *appearanceRequest `json:"appearance"`
}

// Record es la fila base del animal; adoptions la anida sin el refugio.
type Record struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	SpeciesID         int64     `json:"species_id"`
	BreedID           int64     `json:"breed_id"`
	Gender            Gender    `json:"gender"`
	Size              string    `json:"size,omitempty"`
	BirthDate         *string   `json:"birth_date,omitempty"`
	ShelterID         string    `json:"shelter_id"`
	Status            Status    `json:"status"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type colorResponse struct {
	AnimalID string `json:"animal_id"`
	ColorID  int64  `json:"color_id"`
}

type appearanceResponse struct {
	ID        string          `json:"id"`
	AnimalID  string          `json:"animal_id"`
	FurTypeID *int64          `json:"fur_type_id"`
	PatternID *int64          `json:"pattern_id"`
	CreatedAt time.Time       `json:"created_at"`
	Colors    []colorResponse `json:"colors"`
}

type Response struct {
	Record
	Shelter    shelters.Response   `json:"shelter"`
	Appearance *appearanceResponse `json:"appearance,omitempty"`
}

// dispatchAnimalsHandler godoc
// @Summary      Crea (POST) o actualiza (PUT) un animal con apariencia y colores
// @Tags         animals
// @Accept       json
// @Produce      json
// @Param        body  body      createAnimalRequest  true  "POST: createAnimalRequest, PUT: updateAnimalRequest"
// @Success      200   {object}  Response
// @Failure      400   {object}  apierror.Body
// @Failure      504   {object}  apierror.Body
// @Router       /animals [post]
// @Router       /animals [put]
func dispatchAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			view View
			err  error
		)

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case http.MethodPost:
			view, err = createAnimal(r, svc)
		case http.MethodPut:
			view, err = updateAnimal(r, svc)
		default:
			err = apierror.New(apierror.CodeMethodNotAllowed, "method not allowed")
		}

		if err != nil {
			e := apierror.From(err)
			middleware.GetLogger(r.Context()).Warn("animal write failed", map[string]any{
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

func createAnimal(r *http.Request, svc *Service) (View, error) {
	var req createAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return View{}, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err)
	}

	bd, err := parseDate(req.BirthDate)
	if err != nil {
		return View{}, err
	}

	in := CreateInput{
		Name:        req.Name,
		Description: req.Description,
		SpeciesID:   req.SpeciesID,
		BreedID:     req.BreedID,
		Gender:      req.Gender,
		Size:        req.Size,
		BirthDate:   bd,
		ShelterID:   req.ShelterID,
	}
	if req.Appearance != nil {
		in.Appearance = &AppearanceInput{
			FurTypeID: req.Appearance.FurTypeID,
			PatternID: req.Appearance.PatternID,
			Colors:    req.Appearance.Colors,
		}
	}
	return svc.Create(r.Context(), in)
}

func updateAnimal(r *http.Request, svc *Service) (View, error) {
	var req updateAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return View{}, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err)
	}

	in := UpdateInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		SpeciesID:   req.SpeciesID,
		BreedID:     req.BreedID,
		Gender:      req.Gender,
		Size:        req.Size,
		Status:      req.Status,
	}
	if req.BirthDate != nil {
		bd, err := parseDate(*req.BirthDate)
		if err != nil {
			return View{}, err
		}
		in.BirthDate = bd
	}
	if req.Appearance != nil {
		in.Appearance = &AppearanceInput{
			FurTypeID: req.Appearance.FurTypeID,
			PatternID: req.Appearance.PatternID,
			Colors:    req.Appearance.Colors,
		}
	}
	return svc.Update(r.Context(), in)
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, apierror.Wrap(apierror.CodeInvalidInput, "birth_date must be YYYY-MM-DD", err)
	}
	return &t, nil
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(v))
	}
}

func listAvailableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAvailable(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func listShelterAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByShelter(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID"), claims.UserID); err != nil {
			apierror.Write(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadAnimalPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		obj, closeFn, err := shelters.ReadPhoto(r)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		defer closeFn()

		v, err := svc.UploadPhoto(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, obj)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(v))
	}
}

func ToRecord(a Animal) Record {
	rec := Record{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		SpeciesID:         a.SpeciesID,
		BreedID:           a.BreedID,
		Gender:            a.Gender,
		Size:              a.Size,
		ShelterID:         a.ShelterID,
		Status:            a.Status,
		ProfilePictureURL: a.ProfilePictureURL,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.BirthDate != nil {
		s := a.BirthDate.Format(dateLayout)
		rec.BirthDate = &s
	}
	return rec
}

func ToResponse(v View) Response {
	out := Response{
		Record:  ToRecord(v.Animal),
		Shelter: shelters.ToResponse(v.Shelter),
	}
	if v.Appearance != nil {
		ap := &appearanceResponse{
			ID:        v.Appearance.ID,
			AnimalID:  v.Appearance.AnimalID,
			FurTypeID: v.Appearance.FurTypeID,
			PatternID: v.Appearance.PatternID,
			CreatedAt: v.Appearance.CreatedAt,
			Colors:    make([]colorResponse, 0, len(v.Colors)),
		}
		for _, c := range v.Colors {
			ap.Colors = append(ap.Colors, colorResponse{AnimalID: c.AnimalID, ColorID: c.ColorID})
		}
		out.Appearance = ap
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
