package memory

import (
	"context"
	"sort"
	"strings"

	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/ports/storage"
)

func (t *tx) InsertShelter(ctx context.Context, s shelters.Shelter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.ID) == "" {
		return storage.ErrInvalidReference
	}
	if _, exists := t.st.shelters[s.ID]; exists {
		return storage.ErrConflict
	}
	t.st.shelters[s.ID] = s
	return nil
}

func (t *tx) UpdateShelter(ctx context.Context, s shelters.Shelter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := t.st.shelters[s.ID]; !exists {
		return storage.ErrNotFound
	}
	t.st.shelters[s.ID] = s
	return nil
}

func (t *tx) GetShelter(ctx context.Context, id string) (shelters.Shelter, error) {
	if err := ctx.Err(); err != nil {
		return shelters.Shelter{}, err
	}
	s, ok := t.st.shelters[id]
	if !ok {
		return shelters.Shelter{}, storage.ErrNotFound
	}
	return s, nil
}

func (t *tx) ListSheltersByOwner(ctx context.Context, ownerID string) ([]shelters.Shelter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]shelters.Shelter, 0)
	for _, s := range t.st.shelters {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}

	// Orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (t *tx) UpsertProfile(ctx context.Context, p profiles.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return storage.ErrInvalidReference
	}
	t.st.profiles[p.ID] = p
	return nil
}

func (t *tx) GetProfile(ctx context.Context, id string) (profiles.Profile, error) {
	if err := ctx.Err(); err != nil {
		return profiles.Profile{}, err
	}
	p, ok := t.st.profiles[id]
	if !ok {
		return profiles.Profile{}, storage.ErrNotFound
	}
	return p, nil
}
