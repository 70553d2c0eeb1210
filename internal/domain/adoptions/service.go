package adoptions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"kaniu/internal/domain/animals"
	"kaniu/internal/platform/apierror"
	"kaniu/internal/platform/observability"
	"kaniu/internal/ports/storage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Service struct {
	uow    UnitOfWork
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(uow UnitOfWork) *Service {
	return &Service{
		uow:    uow,
		tracer: observability.Tracer("kaniu/adoptions"),
		now:    time.Now,
	}
}

type CreateInput struct {
	AnimalID string
	Message  string
}

type UpdateInput struct {
	ID      string
	Status  Status
	Message *string // nil = no tocar
}

// Create registra un pedido pending. Solo si el animal está available.
func (s *Service) Create(ctx context.Context, principal string, in CreateInput) (View, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return View{}, apierror.New(apierror.CodeUnauthorized, "token not provided")
	}
	animalID := strings.TrimSpace(in.AnimalID)
	if animalID == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "animal_id is required")
	}

	ctx, done := observability.Step(ctx, s.tracer, "adoptions.create", attribute.String("animal.id", animalID))
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		var animal animals.Animal
		if err := s.step(ctx, "adoptions.fetch_animal", func(ctx context.Context) error {
			a, err := repo.GetAnimalForShare(ctx, animalID)
			animal = a
			return err
		}); err != nil {
			return apierror.Wrap(apierror.CodeFetch, "animal not found", err)
		}

		if animal.Status != animals.StatusAvailable {
			return &apierror.Error{
				Code:    apierror.CodeInvalidStatus,
				Message: "animal is not available for adoption",
				Details: map[string]any{"status": animal.Status},
			}
		}

		now := s.timestamp()
		a := Adoption{
			ID:        uuid.NewString(),
			AnimalID:  animal.ID,
			AdopterID: principal,
			ShelterID: animal.ShelterID,
			Status:    StatusPending,
			Message:   strings.TrimSpace(in.Message),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.step(ctx, "adoptions.insert", func(ctx context.Context) error {
			return repo.InsertAdoption(ctx, a)
		}); err != nil {
			return apierror.Wrap(apierror.CodeInsert, "could not create adoption", err)
		}

		v, err := s.readBack(ctx, repo, a.ID)
		out = v
		return err
	})
	done(err)
	if err != nil {
		return View{}, apierror.From(err)
	}
	return out, nil
}

// Update cambia estado/mensaje. Solo el dueño del refugio.
// Aprobar pasa el animal a adopted en la misma unidad; si el animal
// ya no está available se devuelve CONFLICT y no se escribe nada.
func (s *Service) Update(ctx context.Context, principal string, in UpdateInput) (View, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return View{}, apierror.New(apierror.CodeUnauthorized, "token not provided")
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "id is required")
	}
	if !in.Status.Valid() {
		return View{}, apierror.New(apierror.CodeInvalidInput, "status must be pending, approved, rejected or cancelled")
	}

	ctx, done := observability.Step(ctx, s.tracer, "adoptions.update",
		attribute.String("adoption.id", id),
		attribute.String("adoption.status", string(in.Status)),
	)
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		var current Adoption
		var ownerID string
		if err := s.step(ctx, "adoptions.fetch", func(ctx context.Context) error {
			a, err := repo.GetAdoptionForUpdate(ctx, id)
			if err != nil {
				return err
			}
			sh, err := repo.GetShelter(ctx, a.ShelterID)
			if err != nil {
				return err
			}
			current, ownerID = a, sh.OwnerID
			return nil
		}); err != nil {
			return apierror.Wrap(apierror.CodeFetch, "adoption not found", err)
		}

		if ownerID != principal {
			return apierror.New(apierror.CodeUnauthorized, "not allowed to update this adoption")
		}

		// Una adopción aprobada ya movió el animal a adopted; no vuelve atrás.
		if current.Status == StatusApproved {
			return &apierror.Error{
				Code:    apierror.CodeInvalidStatus,
				Message: "adoption is already approved",
				Details: map[string]any{"status": current.Status},
			}
		}

		now := s.timestamp()

		if in.Status == StatusApproved {
			if err := s.step(ctx, "adoptions.adopt_animal", func(ctx context.Context) error {
				return repo.TransitionAnimalStatus(ctx, current.AnimalID, animals.StatusAvailable, animals.StatusAdopted, now)
			}); err != nil {
				if errors.Is(err, storage.ErrConflict) {
					return apierror.Wrap(apierror.CodeConflict, "animal is no longer available", err)
				}
				return apierror.Wrap(apierror.CodeUpdate, "could not update animal status", err)
			}
		}

		current.Status = in.Status
		if in.Message != nil {
			current.Message = strings.TrimSpace(*in.Message)
		}
		current.UpdatedAt = now
		if err := s.step(ctx, "adoptions.update_row", func(ctx context.Context) error {
			return repo.UpdateAdoption(ctx, current)
		}); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not update adoption", err)
		}

		v, err := s.readBack(ctx, repo, id)
		out = v
		return err
	})
	done(err)
	if err != nil {
		return View{}, apierror.From(err)
	}
	return out, nil
}

// Get: visible para el adoptante y para el dueño del refugio.
func (s *Service) Get(ctx context.Context, principal, id string) (View, error) {
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		v, err := s.readBack(ctx, repo, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if v.Adoption.AdopterID != principal && v.Shelter.OwnerID != principal {
			return apierror.New(apierror.CodeUnauthorized, "not allowed to read this adoption")
		}
		out = v
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return View{}, apierror.Wrap(apierror.CodeNotFound, "adoption not found", storage.ErrNotFound)
		}
		return View{}, apierror.From(err)
	}
	return out, nil
}

func (s *Service) ListMine(ctx context.Context, principal string) ([]View, error) {
	return s.list(ctx, func(repo Repository) ([]Adoption, error) {
		return repo.ListAdoptionsByAdopter(ctx, strings.TrimSpace(principal))
	})
}

// ListByShelter: solo el dueño del refugio.
func (s *Service) ListByShelter(ctx context.Context, principal, shelterID string) ([]View, error) {
	return s.list(ctx, func(repo Repository) ([]Adoption, error) {
		sh, err := repo.GetShelter(ctx, strings.TrimSpace(shelterID))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, apierror.Wrap(apierror.CodeNotFound, "shelter not found", err)
			}
			return nil, err
		}
		if sh.OwnerID != strings.TrimSpace(principal) {
			return nil, apierror.New(apierror.CodeUnauthorized, "not the shelter owner")
		}
		return repo.ListAdoptionsByShelter(ctx, sh.ID)
	})
}

func (s *Service) list(ctx context.Context, load func(repo Repository) ([]Adoption, error)) ([]View, error) {
	var out []View
	err := s.uow.Do(ctx, func(repo Repository) error {
		items, err := load(repo)
		if err != nil {
			return apierror.Wrap(apierror.CodeFetch, "could not list adoptions", err)
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})

		out = make([]View, 0, len(items))
		for _, a := range items {
			v, err := s.readBack(ctx, repo, a.ID)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, apierror.From(err)
	}
	return out, nil
}

// readBack arma adopción + animal + adoptante + refugio. FETCH_ERROR si algo no resuelve.
func (s *Service) readBack(ctx context.Context, repo Repository, id string) (View, error) {
	var v View
	err := s.step(ctx, "adoptions.read_back", func(ctx context.Context) error {
		a, err := repo.GetAdoption(ctx, id)
		if err != nil {
			return err
		}
		animal, err := repo.GetAnimal(ctx, a.AnimalID)
		if err != nil {
			return err
		}
		sh, err := repo.GetShelter(ctx, a.ShelterID)
		if err != nil {
			return err
		}
		v = View{Adoption: a, Animal: animal, Shelter: sh}

		p, err := repo.GetProfile(ctx, a.AdopterID)
		switch {
		case err == nil:
			v.Adopter = &p
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return View{}, apierror.Wrap(apierror.CodeFetch, "could not fetch adoption", err)
	}
	return v, nil
}

func (s *Service) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, done := observability.Step(ctx, s.tracer, name)
	err := fn(ctx)
	done(err)
	return err
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
