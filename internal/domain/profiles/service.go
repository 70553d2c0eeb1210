package profiles

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/storage"
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

type UpsertInput struct {
	Name      string
	Email     string
	Role      Role // vacío = regular_user
	AvatarURL string
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	var out Profile
	err := s.uow.Do(ctx, func(repo Repository) error {
		p, err := repo.GetProfile(ctx, strings.TrimSpace(id))
		out = p
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Profile{}, apierror.Wrap(apierror.CodeNotFound, "profile not found", err)
		}
		return Profile{}, apierror.Wrap(apierror.CodeFetch, "could not fetch profile", err)
	}
	return out, nil
}

// Upsert crea o reemplaza el perfil del propio usuario.
// El rol admin no se puede auto-asignar; un admin existente lo conserva.
func (s *Service) Upsert(ctx context.Context, id string, in UpsertInput) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, apierror.New(apierror.CodeUnauthorized, "principal required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Profile{}, apierror.New(apierror.CodeInvalidInput, "name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Profile{}, apierror.Wrap(apierror.CodeInvalidInput, "invalid email", err)
		}
	}

	role := in.Role
	switch role {
	case "":
		role = RoleRegularUser
	case RoleRegularUser, RoleShelterAdmin:
	case RoleAdmin:
		return Profile{}, apierror.New(apierror.CodeInvalidInput, "admin role cannot be self-assigned")
	default:
		return Profile{}, apierror.New(apierror.CodeInvalidInput, "unknown role")
	}

	var out Profile
	err := s.uow.Do(ctx, func(repo Repository) error {
		now := s.now()
		p := Profile{
			ID:        id,
			Name:      name,
			Email:     email,
			Role:      role,
			AvatarURL: strings.TrimSpace(in.AvatarURL),
			CreatedAt: now,
			UpdatedAt: now,
		}

		current, err := repo.GetProfile(ctx, id)
		switch {
		case err == nil:
			p.CreatedAt = current.CreatedAt
			if current.Role == RoleAdmin {
				p.Role = RoleAdmin
			}
		case !errors.Is(err, storage.ErrNotFound):
			return apierror.Wrap(apierror.CodeFetch, "could not fetch profile", err)
		}

		if err := repo.UpsertProfile(ctx, p); err != nil {
			return apierror.Wrap(apierror.CodeUpdate, "could not save profile", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return Profile{}, apierror.From(err)
	}
	return out, nil
}
