package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/ports/storage"
)

func (t *tx) InsertAdoption(ctx context.Context, a adoptions.Adoption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return storage.ErrInvalidReference
	}
	if _, exists := t.st.adoptions[a.ID]; exists {
		return storage.ErrConflict
	}
	if _, ok := t.st.animals[a.AnimalID]; !ok {
		return storage.ErrInvalidReference
	}
	if _, ok := t.st.shelters[a.ShelterID]; !ok {
		return storage.ErrInvalidReference
	}
	t.st.adoptions[a.ID] = a
	return nil
}

func (t *tx) UpdateAdoption(ctx context.Context, a adoptions.Adoption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := t.st.adoptions[a.ID]; !exists {
		return storage.ErrNotFound
	}
	t.st.adoptions[a.ID] = a
	return nil
}

func (t *tx) GetAdoption(ctx context.Context, id string) (adoptions.Adoption, error) {
	if err := ctx.Err(); err != nil {
		return adoptions.Adoption{}, err
	}
	a, ok := t.st.adoptions[id]
	if !ok {
		return adoptions.Adoption{}, storage.ErrNotFound
	}
	return a, nil
}

// GetAdoptionForUpdate: el store ya serializa las unidades, no hace falta bloquear.
func (t *tx) GetAdoptionForUpdate(ctx context.Context, id string) (adoptions.Adoption, error) {
	return t.GetAdoption(ctx, id)
}

func (t *tx) ListAdoptionsByAdopter(ctx context.Context, adopterID string) ([]adoptions.Adoption, error) {
	return t.listAdoptions(ctx, func(a adoptions.Adoption) bool { return a.AdopterID == adopterID })
}

func (t *tx) ListAdoptionsByShelter(ctx context.Context, shelterID string) ([]adoptions.Adoption, error) {
	return t.listAdoptions(ctx, func(a adoptions.Adoption) bool { return a.ShelterID == shelterID })
}

func (t *tx) listAdoptions(ctx context.Context, keep func(a adoptions.Adoption) bool) ([]adoptions.Adoption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]adoptions.Adoption, 0)
	for _, a := range t.st.adoptions {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (t *tx) GetAnimalForShare(ctx context.Context, id string) (animals.Animal, error) {
	return t.GetAnimal(ctx, id)
}

// TransitionAnimalStatus es el UPDATE condicional: solo cambia si el estado actual es from.
func (t *tx) TransitionAnimalStatus(ctx context.Context, animalID string, from, to animals.Status, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, ok := t.st.animals[animalID]
	if !ok {
		return storage.ErrNotFound
	}
	if a.Status != from {
		return storage.ErrConflict
	}
	a.Status = to
	a.UpdatedAt = at
	t.st.animals[animalID] = a
	return nil
}
