package profiles

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, id string) (Profile, error)
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}
