package animals

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"time"

	"kaniu/internal/platform/apierror"
	"kaniu/internal/platform/observability"
	"kaniu/internal/ports/objectstore"
	"kaniu/internal/ports/storage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Service struct {
	uow    UnitOfWork
	photos objectstore.ObjectStore
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(uow UnitOfWork, photos objectstore.ObjectStore) *Service {
	return &Service{
		uow:    uow,
		photos: photos,
		tracer: observability.Tracer("kaniu/animals"),
		now:    time.Now,
	}
}

// AppearanceInput: en Update, nil en cualquier campo = no tocar.
// Colors distingue ausente (nil), vacío (borra todo) y con valores.
type AppearanceInput struct {
	FurTypeID *int64
	PatternID *int64
	Colors    *[]int64
}

type CreateInput struct {
	Name        string
	Description string
	SpeciesID   int64
	BreedID     int64
	Gender      Gender
	Size        string
	BirthDate   *time.Time
	ShelterID   string
	Appearance  *AppearanceInput
}

type UpdateInput struct {
	ID string

	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Description *string
	SpeciesID   *int64
	BreedID     *int64
	Gender      *Gender
	Size        *string
	BirthDate   *time.Time
	Status      *Status

	Appearance *AppearanceInput
}

// Create inserta el animal, su apariencia y sus colores, y devuelve la vista completa.
// Todo corre en una unidad de trabajo: si un paso falla no queda nada escrito.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "name is required")
	}
	if !in.Gender.Valid() {
		return View{}, apierror.New(apierror.CodeInvalidInput, "gender must be Macho, Fêmea or Indefinido")
	}
	if strings.TrimSpace(in.ShelterID) == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "shelter_id is required")
	}

	now := s.timestamp()
	a := Animal{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		SpeciesID:   in.SpeciesID,
		BreedID:     in.BreedID,
		Gender:      in.Gender,
		Size:        strings.TrimSpace(in.Size),
		BirthDate:   in.BirthDate,
		ShelterID:   strings.TrimSpace(in.ShelterID),
		Status:      StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, done := observability.Step(ctx, s.tracer, "animals.create", attribute.String("animal.id", a.ID))
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		if err := s.step(ctx, "animals.insert", func(ctx context.Context) error {
			return repo.InsertAnimal(ctx, a)
		}); err != nil {
			return apierror.Wrap(apierror.CodeInsert, "could not create animal", err)
		}

		if in.Appearance != nil {
			ap := Appearance{
				ID:        uuid.NewString(),
				AnimalID:  a.ID,
				FurTypeID: in.Appearance.FurTypeID,
				PatternID: in.Appearance.PatternID,
				CreatedAt: now,
			}
			if err := s.step(ctx, "animals.appearance", func(ctx context.Context) error {
				return repo.UpsertAppearance(ctx, ap)
			}); err != nil {
				return apierror.Wrap(apierror.CodeAppearance, "could not save appearance", err)
			}

			if colors := in.Appearance.Colors; colors != nil && len(*colors) > 0 {
				if err := s.step(ctx, "animals.colors", func(ctx context.Context) error {
					return repo.InsertColors(ctx, a.ID, *colors)
				}); err != nil {
					return apierror.Wrap(apierror.CodeColors, "could not save colors", err)
				}
			}
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

// Update aplica un patch parcial. Si viene appearance se hace upsert;
// si vienen colors se borran todos y se insertan los nuevos.
func (s *Service) Update(ctx context.Context, in UpdateInput) (View, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "id is required")
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return View{}, apierror.New(apierror.CodeInvalidInput, "gender must be Macho, Fêmea or Indefinido")
	}
	if in.Status != nil && !in.Status.Valid() {
		return View{}, apierror.New(apierror.CodeInvalidInput, "unknown animal status")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return View{}, apierror.New(apierror.CodeInvalidInput, "name cannot be empty")
	}

	ctx, done := observability.Step(ctx, s.tracer, "animals.update", attribute.String("animal.id", id))
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		now := s.timestamp()

		if err := s.step(ctx, "animals.patch", func(ctx context.Context) error {
			current, err := repo.GetAnimal(ctx, id)
			if err != nil {
				return err
			}
			return repo.UpdateAnimal(ctx, applyPatch(current, in, now))
		}); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not update animal", err)
		}

		if in.Appearance != nil {
			if err := s.step(ctx, "animals.appearance", func(ctx context.Context) error {
				ap, err := repo.GetAppearance(ctx, id)
				switch {
				case errors.Is(err, storage.ErrNotFound):
					ap = Appearance{ID: uuid.NewString(), AnimalID: id, CreatedAt: now}
				case err != nil:
					return err
				}
				if in.Appearance.FurTypeID != nil {
					ap.FurTypeID = in.Appearance.FurTypeID
				}
				if in.Appearance.PatternID != nil {
					ap.PatternID = in.Appearance.PatternID
				}
				return repo.UpsertAppearance(ctx, ap)
			}); err != nil {
				return apierror.Wrap(apierror.CodeAppearance, "could not save appearance", err)
			}

			if colors := in.Appearance.Colors; colors != nil {
				if err := s.step(ctx, "animals.colors", func(ctx context.Context) error {
					if err := repo.DeleteColors(ctx, id); err != nil {
						return err
					}
					if len(*colors) == 0 {
						return nil
					}
					return repo.InsertColors(ctx, id, *colors)
				}); err != nil {
					return apierror.Wrap(apierror.CodeColors, "could not replace colors", err)
				}
			}
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

func applyPatch(a Animal, in UpdateInput, now time.Time) Animal {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		a.Description = strings.TrimSpace(*in.Description)
	}
	if in.SpeciesID != nil {
		a.SpeciesID = *in.SpeciesID
	}
	if in.BreedID != nil {
		a.BreedID = *in.BreedID
	}
	if in.Gender != nil {
		a.Gender = *in.Gender
	}
	if in.Size != nil {
		a.Size = strings.TrimSpace(*in.Size)
	}
	if in.BirthDate != nil {
		a.BirthDate = in.BirthDate
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	a.UpdatedAt = now
	return a
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	var out View
	err := s.uow.Do(ctx, func(repo Repository) error {
		v, err := s.readBack(ctx, repo, strings.TrimSpace(id))
		out = v
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return View{}, apierror.Wrap(apierror.CodeNotFound, "animal not found", storage.ErrNotFound)
		}
		return View{}, apierror.From(err)
	}
	return out, nil
}

func (s *Service) ListByShelter(ctx context.Context, shelterID string) ([]View, error) {
	return s.list(ctx, func(repo Repository) ([]Animal, error) {
		if _, err := repo.GetShelter(ctx, strings.TrimSpace(shelterID)); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, apierror.Wrap(apierror.CodeNotFound, "shelter not found", err)
			}
			return nil, err
		}
		return repo.ListAnimalsByShelter(ctx, strings.TrimSpace(shelterID))
	})
}

func (s *Service) ListAvailable(ctx context.Context) ([]View, error) {
	return s.list(ctx, func(repo Repository) ([]Animal, error) {
		return repo.ListAnimalsByStatus(ctx, StatusAvailable)
	})
}

func (s *Service) list(ctx context.Context, load func(repo Repository) ([]Animal, error)) ([]View, error) {
	var out []View
	err := s.uow.Do(ctx, func(repo Repository) error {
		items, err := load(repo)
		if err != nil {
			return apierror.Wrap(apierror.CodeFetch, "could not list animals", err)
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

// Delete borra animal, apariencia y colores. Solo el dueño del refugio.
func (s *Service) Delete(ctx context.Context, id, principal string) error {
	err := s.uow.Do(ctx, func(repo Repository) error {
		if _, err := s.ownedBy(ctx, repo, id, principal); err != nil {
			return err
		}
		if err := repo.DeleteColors(ctx, id); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not delete colors", err)
		}
		if err := repo.DeleteAnimal(ctx, id); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return apierror.Wrap(apierror.CodeConflict, "animal has adoptions", err)
			}
			return apierror.Wrap(apierror.CodeUpdate, "could not delete animal", err)
		}
		return nil
	})
	if err != nil {
		return apierror.From(err)
	}
	return nil
}

// UploadPhoto sube la foto al bucket animal-photos y la deja como profile_picture_url.
func (s *Service) UploadPhoto(ctx context.Context, id, principal string, obj objectstore.Object) (View, error) {
	if s.photos == nil {
		return View{}, apierror.New(apierror.CodeInsert, "object store not configured")
	}

	var owned Animal
	err := s.uow.Do(ctx, func(repo Repository) error {
		a, err := s.ownedBy(ctx, repo, id, principal)
		owned = a
		return err
	})
	if err != nil {
		return View{}, apierror.From(err)
	}

	// La subida va fuera de la unidad: no retiene la transacción durante la red.
	obj.Bucket = objectstore.BucketAnimalPhotos
	obj.Name = path.Join(owned.ShelterID, owned.ID, uuid.NewString()+path.Ext(obj.Name))
	url, err := s.photos.Put(ctx, obj)
	if err != nil {
		return View{}, apierror.Wrap(apierror.CodeInsert, "could not upload photo", err)
	}

	var out View
	err = s.uow.Do(ctx, func(repo Repository) error {
		a, err := s.ownedBy(ctx, repo, owned.ID, principal)
		if err != nil {
			return err
		}
		a.ProfilePictureURL = url
		a.UpdatedAt = s.timestamp()
		if err := repo.UpdateAnimal(ctx, a); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not save photo url", err)
		}

		v, err := s.readBack(ctx, repo, a.ID)
		out = v
		return err
	})
	if err != nil {
		// Sin fila que lo referencie el blob sobra. Si el borrado falla queda huérfano.
		_ = s.photos.Delete(context.WithoutCancel(ctx), obj.Bucket, obj.Name)
		return View{}, apierror.From(err)
	}
	return out, nil
}

func (s *Service) ownedBy(ctx context.Context, repo Repository, id, principal string) (Animal, error) {
	a, err := repo.GetAnimal(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Animal{}, apierror.Wrap(apierror.CodeNotFound, "animal not found", err)
		}
		return Animal{}, apierror.Wrap(apierror.CodeFetch, "could not fetch animal", err)
	}
	sh, err := repo.GetShelter(ctx, a.ShelterID)
	if err != nil {
		return Animal{}, apierror.Wrap(apierror.CodeFetch, "could not fetch shelter", err)
	}
	if sh.OwnerID != strings.TrimSpace(principal) {
		return Animal{}, apierror.New(apierror.CodeUnauthorized, "not the shelter owner")
	}
	return a, nil
}

// readBack arma la vista compuesta. Cualquier fallo es FETCH_ERROR.
func (s *Service) readBack(ctx context.Context, repo Repository, id string) (View, error) {
	var v View
	err := s.step(ctx, "animals.read_back", func(ctx context.Context) error {
		a, err := repo.GetAnimal(ctx, id)
		if err != nil {
			return err
		}
		sh, err := repo.GetShelter(ctx, a.ShelterID)
		if err != nil {
			return err
		}
		v = View{Animal: a, Shelter: sh}

		ap, err := repo.GetAppearance(ctx, id)
		switch {
		case err == nil:
			v.Appearance = &ap
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		colors, err := repo.ListColors(ctx, id)
		if err != nil {
			return err
		}
		v.Colors = colors
		return nil
	})
	if err != nil {
		return View{}, apierror.Wrap(apierror.CodeFetch, "could not fetch animal", err)
	}
	return v, nil
}

func (s *Service) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, done := observability.Step(ctx, s.tracer, name)
	err := fn(ctx)
	done(err)
	return err
}

// timestamp recorta a microsegundos para que memoria y postgres devuelvan lo mismo.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
