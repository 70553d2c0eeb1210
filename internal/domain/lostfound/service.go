package lostfound

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/storage"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	uow UnitOfWork
	now func() time.Time
}

func NewService(uow UnitOfWork) *Service {
	return &Service{
		uow: uow,
		now: time.Now,
	}
}

type CreateInput struct {
	Type        ReportType
	AnimalID    string
	Latitude    float64
	Longitude   float64
	Address     string
	Description string
}

func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (Report, error) {
	reporterID = strings.TrimSpace(reporterID)
	if reporterID == "" {
		return Report{}, apierror.New(apierror.CodeUnauthorized, "token not provided")
	}
	if in.Type != ReportLost && in.Type != ReportFound {
		return Report{}, apierror.New(apierror.CodeInvalidInput, "report_type must be lost or found")
	}
	if !validCoordinates(in.Latitude, in.Longitude) {
		return Report{}, apierror.New(apierror.CodeInvalidInput, "location out of range")
	}

	now := s.timestamp()
	r := Report{
		ID:          uuid.NewString(),
		ReporterID:  reporterID,
		Type:        in.Type,
		AnimalID:    strings.TrimSpace(in.AnimalID),
		Location:    Location{Latitude: in.Latitude, Longitude: in.Longitude},
		Address:     strings.TrimSpace(in.Address),
		Description: strings.TrimSpace(in.Description),
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.uow.Do(ctx, func(repo Repository) error {
		return repo.InsertReport(ctx, r)
	})
	if err != nil {
		return Report{}, apierror.Wrap(apierror.CodeInsert, "could not create report", err)
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	var out Report
	err := s.uow.Do(ctx, func(repo Repository) error {
		r, err := repo.GetReport(ctx, strings.TrimSpace(id))
		out = r
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Report{}, apierror.Wrap(apierror.CodeNotFound, "report not found", err)
		}
		return Report{}, apierror.Wrap(apierror.CodeFetch, "could not fetch report", err)
	}
	return out, nil
}

// ListOpen devuelve los avisos abiertos, más nuevos primero.
func (s *Service) ListOpen(ctx context.Context, filter ListFilter) ([]Report, error) {
	if filter.Type != "" && filter.Type != ReportLost && filter.Type != ReportFound {
		return nil, apierror.New(apierror.CodeInvalidInput, "type must be lost or found")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	var out []Report
	err := s.uow.Do(ctx, func(repo Repository) error {
		items, err := repo.ListOpenReports(ctx, filter)
		out = items
		return err
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.CodeFetch, "could not list reports", err)
	}
	return out, nil
}

// Resolve cierra el aviso (opcionalmente enlazando el aviso que lo resolvió).
// Idempotente si ya estaba resuelto.
func (s *Service) Resolve(ctx context.Context, id, principal, matchedReportID string) (Report, error) {
	return s.close(ctx, id, principal, StatusResolved, func(repo Repository, r *Report) error {
		matched := strings.TrimSpace(matchedReportID)
		if matched == "" {
			return nil
		}
		if matched == r.ID {
			return apierror.New(apierror.CodeInvalidInput, "a report cannot match itself")
		}
		other, err := repo.GetReport(ctx, matched)
		if err != nil {
			return apierror.Wrap(apierror.CodeFetch, "matched report not found", err)
		}
		if other.Type == r.Type {
			return apierror.New(apierror.CodeInvalidInput, "matched report must be of the opposite type")
		}
		r.MatchedReportID = other.ID
		return nil
	})
}

// Cancel: idempotente si ya estaba cancelado.
func (s *Service) Cancel(ctx context.Context, id, principal string) (Report, error) {
	return s.close(ctx, id, principal, StatusCancelled, nil)
}

func (s *Service) close(ctx context.Context, id, principal string, to Status, extra func(repo Repository, r *Report) error) (Report, error) {
	var out Report
	err := s.uow.Do(ctx, func(repo Repository) error {
		r, err := repo.GetReport(ctx, strings.TrimSpace(id))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apierror.Wrap(apierror.CodeNotFound, "report not found", err)
			}
			return apierror.Wrap(apierror.CodeFetch, "could not fetch report", err)
		}
		if r.ReporterID != strings.TrimSpace(principal) {
			return apierror.New(apierror.CodeUnauthorized, "only the reporter can close this report")
		}

		if r.Status == to {
			out = r
			return nil
		}
		if r.Status != StatusOpen {
			return &apierror.Error{
				Code:    apierror.CodeInvalidStatus,
				Message: "report is already closed",
				Details: map[string]any{"status": r.Status},
			}
		}

		if extra != nil {
			if err := extra(repo, &r); err != nil {
				return err
			}
		}

		now := s.timestamp()
		r.Status = to
		r.UpdatedAt = now
		if to == StatusResolved {
			r.ResolvedAt = &now
		}
		if err := repo.UpdateReport(ctx, r); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not update report", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return Report{}, apierror.From(err)
	}
	return out, nil
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
