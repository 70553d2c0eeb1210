package shelters

import "context"

type Repository interface {
	InsertShelter(ctx context.Context, s Shelter) error
	UpdateShelter(ctx context.Context, s Shelter) error
	GetShelter(ctx context.Context, id string) (Shelter, error)
	ListSheltersByOwner(ctx context.Context, ownerID string) ([]Shelter, error)
}

// UnitOfWork ejecuta fn dentro de una transacción del store.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}
