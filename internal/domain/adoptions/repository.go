package adoptions

import (
	"context"
	"time"

	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
)

type Repository interface {
	InsertAdoption(ctx context.Context, a Adoption) error
	UpdateAdoption(ctx context.Context, a Adoption) error
	GetAdoption(ctx context.Context, id string) (Adoption, error)
	// GetAdoptionForUpdate bloquea la fila hasta el fin de la unidad.
	GetAdoptionForUpdate(ctx context.Context, id string) (Adoption, error)
	ListAdoptionsByAdopter(ctx context.Context, adopterID string) ([]Adoption, error)
	ListAdoptionsByShelter(ctx context.Context, shelterID string) ([]Adoption, error)

	GetAnimal(ctx context.Context, id string) (animals.Animal, error)
	// GetAnimalForShare lee el animal impidiendo que otra unidad cambie su estado
	// hasta el fin de esta.
	GetAnimalForShare(ctx context.Context, id string) (animals.Animal, error)
	// TransitionAnimalStatus cambia el estado solo si el actual es from;
	// si no, devuelve storage.ErrConflict.
	TransitionAnimalStatus(ctx context.Context, animalID string, from, to animals.Status, at time.Time) error

	GetShelter(ctx context.Context, id string) (shelters.Shelter, error)
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}
