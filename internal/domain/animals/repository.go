package animals

import (
	"context"

	"kaniu/internal/domain/shelters"
)

type Repository interface {
	InsertAnimal(ctx context.Context, a Animal) error
	UpdateAnimal(ctx context.Context, a Animal) error
	GetAnimal(ctx context.Context, id string) (Animal, error)
	DeleteAnimal(ctx context.Context, id string) error
	ListAnimalsByShelter(ctx context.Context, shelterID string) ([]Animal, error)
	ListAnimalsByStatus(ctx context.Context, status Status) ([]Animal, error)

	// GetAppearance devuelve storage.ErrNotFound si el animal no tiene apariencia.
	GetAppearance(ctx context.Context, animalID string) (Appearance, error)
	UpsertAppearance(ctx context.Context, ap Appearance) error

	DeleteColors(ctx context.Context, animalID string) error
	InsertColors(ctx context.Context, animalID string, colorIDs []int64) error
	ListColors(ctx context.Context, animalID string) ([]Color, error)

	GetShelter(ctx context.Context, id string) (shelters.Shelter, error)
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}
