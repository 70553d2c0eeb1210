package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"kaniu/internal/domain/animals"
	"kaniu/internal/ports/storage"
)

func (t *tx) InsertAnimal(ctx context.Context, a animals.Animal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return storage.ErrInvalidReference
	}
	if _, exists := t.st.animals[a.ID]; exists {
		return storage.ErrConflict
	}
	if _, ok := t.st.shelters[a.ShelterID]; !ok {
		return storage.ErrInvalidReference
	}
	t.st.animals[a.ID] = a
	return nil
}

func (t *tx) UpdateAnimal(ctx context.Context, a animals.Animal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := t.st.animals[a.ID]; !exists {
		return storage.ErrNotFound
	}
	if _, ok := t.st.shelters[a.ShelterID]; !ok {
		return storage.ErrInvalidReference
	}
	t.st.animals[a.ID] = a
	return nil
}

func (t *tx) GetAnimal(ctx context.Context, id string) (animals.Animal, error) {
	if err := ctx.Err(); err != nil {
		return animals.Animal{}, err
	}
	a, ok := t.st.animals[id]
	if !ok {
		return animals.Animal{}, storage.ErrNotFound
	}
	return a, nil
}

// DeleteAnimal borra en cascada apariencia y colores; falla con ErrConflict
// si hay adopciones que lo referencian. Los avisos quedan sin animal.
func (t *tx) DeleteAnimal(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.st.animals[id]; !ok {
		return storage.ErrNotFound
	}
	for _, ad := range t.st.adoptions {
		if ad.AnimalID == id {
			return storage.ErrConflict
		}
	}

	delete(t.st.animals, id)
	delete(t.st.appearances, id)
	delete(t.st.colors, id)
	for rid, r := range t.st.reports {
		if r.AnimalID == id {
			r.AnimalID = ""
			t.st.reports[rid] = r
		}
	}
	return nil
}

func (t *tx) ListAnimalsByShelter(ctx context.Context, shelterID string) ([]animals.Animal, error) {
	return t.listAnimals(ctx, func(a animals.Animal) bool { return a.ShelterID == shelterID })
}

func (t *tx) ListAnimalsByStatus(ctx context.Context, status animals.Status) ([]animals.Animal, error) {
	return t.listAnimals(ctx, func(a animals.Animal) bool { return a.Status == status })
}

func (t *tx) listAnimals(ctx context.Context, keep func(a animals.Animal) bool) ([]animals.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]animals.Animal, 0)
	for _, a := range t.st.animals {
		if keep(a) {
			out = append(out, a)
		}
	}

	// Orden por created_at desc, id como desempate
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (t *tx) GetAppearance(ctx context.Context, animalID string) (animals.Appearance, error) {
	if err := ctx.Err(); err != nil {
		return animals.Appearance{}, err
	}
	ap, ok := t.st.appearances[animalID]
	if !ok {
		return animals.Appearance{}, storage.ErrNotFound
	}
	return ap, nil
}

// UpsertAppearance: una fila por animal; los ids de catálogo deben ser positivos.
func (t *tx) UpsertAppearance(ctx context.Context, ap animals.Appearance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.st.animals[ap.AnimalID]; !ok {
		return storage.ErrInvalidReference
	}
	if (ap.FurTypeID != nil && *ap.FurTypeID <= 0) || (ap.PatternID != nil && *ap.PatternID <= 0) {
		return storage.ErrInvalidReference
	}
	if cur, ok := t.st.appearances[ap.AnimalID]; ok {
		ap.ID = cur.ID
		ap.CreatedAt = cur.CreatedAt
	}
	t.st.appearances[ap.AnimalID] = ap
	return nil
}

func (t *tx) DeleteColors(ctx context.Context, animalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(t.st.colors, animalID)
	return nil
}

// InsertColors respeta la PK (animal_id, color_id): un duplicado es ErrConflict.
func (t *tx) InsertColors(ctx context.Context, animalID string, colorIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.st.animals[animalID]; !ok {
		return storage.ErrInvalidReference
	}

	current := append([]int64(nil), t.st.colors[animalID]...)
	for _, c := range colorIDs {
		if c <= 0 {
			return storage.ErrInvalidReference
		}
		if slices.Contains(current, c) {
			return storage.ErrConflict
		}
		current = append(current, c)
	}
	t.st.colors[animalID] = current
	return nil
}

func (t *tx) ListColors(ctx context.Context, animalID string) ([]animals.Color, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := slices.Clone(t.st.colors[animalID])
	slices.Sort(ids)

	out := make([]animals.Color, 0, len(ids))
	for _, id := range ids {
		out = append(out, animals.Color{AnimalID: animalID, ColorID: id})
	}
	return out, nil
}
