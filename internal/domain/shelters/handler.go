package shelters

import (
	"encoding/json"
	"net/http"
	"time"

	"kaniu/internal/middleware"
	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/objectstore"

	"github.com/go-chi/chi/v5"
)

// MaxPhotoBytes limita el multipart de subida de fotos.
const MaxPhotoBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/shelters", createShelterHandler(svc))
	r.Get("/shelters/{shelterID}", getShelterHandler(svc))
	r.Patch("/shelters/{shelterID}", updateShelterHandler(svc))
	r.Post("/shelters/{shelterID}/photo", uploadShelterPhotoHandler(svc))

	r.Get("/me/shelters", listMySheltersHandler(svc))
}

type createShelterRequest struct {
	Name        string       `json:"name"`
	Address     *Address     `json:"address"`
	ContactInfo *ContactInfo `json:"contact_info"`
}

type updateShelterRequest struct {
	Name        *string      `json:"name"`
	Address     *Address     `json:"address"`
	ContactInfo *ContactInfo `json:"contact_info"`
}

type Response struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	OwnerID     string       `json:"owner_id"`
	Address     *Address     `json:"address"`
	ContactInfo *ContactInfo `json:"contact_info"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func createShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		var req createShelterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err))
			return
		}

		sh, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Address:     req.Address,
			ContactInfo: req.ContactInfo,
		})
		if err != nil {
			apierror.Write(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(sh))
	}
}

func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetByID(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(sh))
	}
}

func updateShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		var req updateShelterRequest
		if err := dec.Decode(&req); err != nil {
			apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err))
			return
		}

		sh, err := svc.Update(r.Context(), chi.URLParam(r, "shelterID"), claims.UserID, UpdateInput{
			Name:        req.Name,
			Address:     req.Address,
			ContactInfo: req.ContactInfo,
		})
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(sh))
	}
}

func listMySheltersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			apierror.Write(w, err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, sh := range items {
			out = append(out, ToResponse(sh))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func uploadShelterPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		obj, closeFn, err := ReadPhoto(r)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		defer closeFn()

		sh, err := svc.UploadPhoto(r.Context(), chi.URLParam(r, "shelterID"), claims.UserID, obj)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(sh))
	}
}

// ReadPhoto extrae el campo "file" de un multipart/form-data.
// El caller debe invocar la función devuelta para cerrar el archivo.
func ReadPhoto(r *http.Request) (objectstore.Object, func(), error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxPhotoBytes)
	if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
		return objectstore.Object{}, nil, apierror.Wrap(apierror.CodeInvalidInput, "invalid multipart form", err)
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return objectstore.Object{}, nil, apierror.Wrap(apierror.CodeInvalidInput, "file is required", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return objectstore.Object{
		Name:        header.Filename,
		ContentType: contentType,
		Body:        f,
		Size:        header.Size,
	}, func() { _ = f.Close() }, nil
}

// ToResponse se exporta porque animals y adoptions anidan el refugio en sus vistas.
func ToResponse(sh Shelter) Response {
	return Response{
		ID:          sh.ID,
		Name:        sh.Name,
		OwnerID:     sh.OwnerID,
		Address:     sh.Address,
		ContactInfo: sh.ContactInfo,
		PhotoURL:    sh.PhotoURL,
		CreatedAt:   sh.CreatedAt,
		UpdatedAt:   sh.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
