package lostfound

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kaniu/internal/middleware"
	"kaniu/internal/platform/apierror"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/reports", createReportHandler(svc))
	r.Get("/reports", listReportsHandler(svc))
	r.Get("/reports/{reportID}", getReportHandler(svc))
	r.Post("/reports/{reportID}/resolve", resolveReportHandler(svc))
	r.Post("/reports/{reportID}/cancel", cancelReportHandler(svc))
}

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// createReportRequest es el cuerpo para publicar un aviso de perdido/encontrado.
type createReportRequest struct {
	ReportType  ReportType      `json:"report_type" enums:"lost,found"`
	AnimalID    string          `json:"animal_id"`
	Location    locationPayload `json:"location"`
	Address     string          `json:"address"`
	Description string          `json:"description"`
}

type resolveReportRequest struct {
	MatchedReportID string `json:"matched_report_id"`
}

// reportResponse: location va como GeoJSON Point ([longitud, latitud]).
type reportResponse struct {
	ID              string     `json:"id"`
	ReporterID      string     `json:"reporter_id"`
	ReportType      ReportType `json:"report_type"`
	AnimalID        string     `json:"animal_id,omitempty"`
	Location        geoJSON    `json:"location"`
	Address         string     `json:"address,omitempty"`
	Description     string     `json:"description,omitempty"`
	MatchedReportID string     `json:"matched_report_id,omitempty"`
	Status          Status     `json:"status"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type geoJSON struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// createReportHandler godoc
// @Summary Publicar aviso de animal perdido o encontrado
// @Description Cualquier usuario autenticado puede publicar. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags lostfound
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createReportRequest true "Datos del aviso"
// @Success 201 {object} reportResponse
// @Failure 400 {object} apierror.Body
// @Failure 401 {object} apierror.Body
// @Router /reports [post]
func createReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err))
			return
		}

		rep, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Type:        req.ReportType,
			AnimalID:    req.AnimalID,
			Latitude:    req.Location.Latitude,
			Longitude:   req.Location.Longitude,
			Address:     req.Address,
			Description: req.Description,
		})
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

// listReportsHandler godoc
// @Summary Listar avisos abiertos
// @Tags lostfound
// @Produce json
// @Param type query string false "lost | found"
// @Param limit query int false "máximo de resultados (default 50, tope 200)"
// @Success 200 {array} reportResponse
// @Failure 400 {object} apierror.Body
// @Router /reports [get]
func listReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{Type: ReportType(q.Get("type"))}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "limit must be a number", err))
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListOpen(r.Context(), filter)
		if err != nil {
			apierror.Write(w, err)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, rep := range items {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

// resolveReportHandler godoc
// @Summary Marcar aviso como resuelto
// @Description Solo quien publicó el aviso. Idempotente.
// @Tags lostfound
// @Accept json
// @Produce json
// @Param reportID path string true "ID del aviso"
// @Param payload body resolveReportRequest false "Aviso del tipo opuesto que lo resolvió"
// @Success 200 {object} reportResponse
// @Failure 400 {object} apierror.Body
// @Failure 401 {object} apierror.Body
// @Failure 404 {object} apierror.Body
// @Router /reports/{reportID}/resolve [post]
func resolveReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		// Body opcional.
		var req resolveReportRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apierror.Write(w, apierror.Wrap(apierror.CodeInvalidInput, "invalid json", err))
				return
			}
		}

		rep, err := svc.Resolve(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, req.MatchedReportID)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func cancelReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			apierror.Write(w, err)
			return
		}

		rep, err := svc.Cancel(r.Context(), chi.URLParam(r, "reportID"), claims.UserID)
		if err != nil {
			apierror.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func toReportResponse(r Report) reportResponse {
	return reportResponse{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		ReportType: r.Type,
		AnimalID:   r.AnimalID,
		Location: geoJSON{
			Type:        "Point",
			Coordinates: [2]float64{r.Location.Longitude, r.Location.Latitude},
		},
		Address:         r.Address,
		Description:     r.Description,
		MatchedReportID: r.MatchedReportID,
		Status:          r.Status,
		ResolvedAt:      r.ResolvedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
