package shelters

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/objectstore"
	"kaniu/internal/ports/storage"

	"github.com/google/uuid"
)

type Service struct {
	uow    UnitOfWork
	photos objectstore.ObjectStore
	now    func() time.Time
}

// NewService: photos puede ser nil (las subidas fallan con INSERT_ERROR).
func NewService(uow UnitOfWork, photos objectstore.ObjectStore) *Service {
	return &Service{
		uow:    uow,
		photos: photos,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name        string
	Address     *Address
	ContactInfo *ContactInfo
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Address     *Address
	ContactInfo *ContactInfo
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Shelter, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Shelter{}, apierror.New(apierror.CodeUnauthorized, "owner required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Shelter{}, apierror.New(apierror.CodeInvalidInput, "name is required")
	}

	now := s.now()
	sh := Shelter{
		ID:          uuid.NewString(),
		Name:        name,
		OwnerID:     ownerID,
		Address:     in.Address,
		ContactInfo: in.ContactInfo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.uow.Do(ctx, func(repo Repository) error {
		return repo.InsertShelter(ctx, sh)
	})
	if err != nil {
		return Shelter{}, apierror.Wrap(apierror.CodeInsert, "could not create shelter", err)
	}
	return sh, nil
}

func (s *Service) Update(ctx context.Context, id, principal string, in UpdateInput) (Shelter, error) {
	var out Shelter
	err := s.uow.Do(ctx, func(repo Repository) error {
		current, err := s.ownedBy(ctx, repo, id, principal)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apierror.New(apierror.CodeInvalidInput, "name cannot be empty")
			}
			current.Name = name
		}
		if in.Address != nil {
			current.Address = in.Address
		}
		if in.ContactInfo != nil {
			current.ContactInfo = in.ContactInfo
		}
		current.UpdatedAt = s.now()

		if err := repo.UpdateShelter(ctx, current); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not update shelter", err)
		}
		out = current
		return nil
	})
	if err != nil {
		return Shelter{}, apierror.From(err)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	var out Shelter
	err := s.uow.Do(ctx, func(repo Repository) error {
		sh, err := repo.GetShelter(ctx, strings.TrimSpace(id))
		out = sh
		return err
	})
	if err != nil {
		return Shelter{}, notFoundOr(err, "shelter not found")
	}
	return out, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Shelter, error) {
	var out []Shelter
	err := s.uow.Do(ctx, func(repo Repository) error {
		items, err := repo.ListSheltersByOwner(ctx, strings.TrimSpace(ownerID))
		out = items
		return err
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.CodeFetch, "could not list shelters", err)
	}
	return out, nil
}

// UploadPhoto sube la foto al bucket shelter-photos y guarda la URL pública.
func (s *Service) UploadPhoto(ctx context.Context, id, principal string, obj objectstore.Object) (Shelter, error) {
	if s.photos == nil {
		return Shelter{}, apierror.New(apierror.CodeInsert, "object store not configured")
	}
	var shelterID string
	err := s.uow.Do(ctx, func(repo Repository) error {
		current, err := s.ownedBy(ctx, repo, id, principal)
		shelterID = current.ID
		return err
	})
	if err != nil {
		return Shelter{}, apierror.From(err)
	}

	obj.Bucket = objectstore.BucketShelterPhotos
	obj.Name = path.Join(shelterID, uuid.NewString()+path.Ext(obj.Name))
	url, err := s.photos.Put(ctx, obj)
	if err != nil {
		return Shelter{}, apierror.Wrap(apierror.CodeInsert, "could not upload photo", err)
	}

	var out Shelter
	err = s.uow.Do(ctx, func(repo Repository) error {
		current, err := s.ownedBy(ctx, repo, shelterID, principal)
		if err != nil {
			return err
		}
		current.PhotoURL = url
		current.UpdatedAt = s.now()
		if err := repo.UpdateShelter(ctx, current); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not save photo url", err)
		}
		out = current
		return nil
	})
	if err != nil {
		_ = s.photos.Delete(context.WithoutCancel(ctx), obj.Bucket, obj.Name)
		return Shelter{}, apierror.From(err)
	}
	return out, nil
}

func (s *Service) ownedBy(ctx context.Context, repo Repository, id, principal string) (Shelter, error) {
	current, err := repo.GetShelter(ctx, strings.TrimSpace(id))
	if err != nil {
		return Shelter{}, notFoundOr(err, "shelter not found")
	}
	if current.OwnerID != strings.TrimSpace(principal) {
		return Shelter{}, apierror.New(apierror.CodeUnauthorized, "not the shelter owner")
	}
	return current, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apierror.Wrap(apierror.CodeNotFound, msg, err)
	}
	return apierror.Wrap(apierror.CodeFetch, msg, err)
}
