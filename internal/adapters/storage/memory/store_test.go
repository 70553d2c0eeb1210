package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/storage"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *Store
	shelters  *shelters.Service
	animals   *animals.Service
	adoptions *adoptions.Service
	shelterID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := NewStore()
	f := fixture{
		store:     st,
		shelters:  shelters.NewService(st.Shelters(), nil),
		animals:   animals.NewService(st.Animals(), nil),
		adoptions: adoptions.NewService(st.Adoptions()),
	}
	sh, err := f.shelters.Create(context.Background(), "U", shelters.CreateInput{Name: "Patitas"})
	require.NoError(t, err)
	f.shelterID = sh.ID
	return f
}

func (f fixture) newAnimal(t *testing.T, colors ...int64) animals.View {
	t.Helper()
	v, err := f.animals.Create(context.Background(), animals.CreateInput{
		Name:       "Luna",
		Gender:     animals.GenderFemale,
		ShelterID:  f.shelterID,
		Appearance: &animals.AppearanceInput{Colors: &colors},
	})
	require.NoError(t, err)
	return v
}

func ptr[T any](v T) *T { return &v }

func TestStore_CreateAnimal_RollsBackOnColorsError(t *testing.T) {
	f := newFixture(t)

	dup := []int64{4, 4}
	_, err := f.animals.Create(context.Background(), animals.CreateInput{
		Name:       "Luna",
		Gender:     animals.GenderFemale,
		ShelterID:  f.shelterID,
		Appearance: &animals.AppearanceInput{Colors: &dup},
	})
	require.True(t, apierror.HasCode(err, apierror.CodeColors))

	// Ni el animal ni la apariencia quedaron escritos.
	require.Empty(t, f.store.st.animals)
	require.Empty(t, f.store.st.appearances)
}

func TestStore_CreateAnimal_UnknownShelter(t *testing.T) {
	f := newFixture(t)

	_, err := f.animals.Create(context.Background(), animals.CreateInput{
		Name:      "Luna",
		Gender:    animals.GenderFemale,
		ShelterID: "no-such-shelter",
	})
	require.True(t, apierror.HasCode(err, apierror.CodeInsert))
}

func TestStore_UpdateAnimal_RollsBackPatchOnAppearanceError(t *testing.T) {
	f := newFixture(t)
	v := f.newAnimal(t, 1)

	_, err := f.animals.Update(context.Background(), animals.UpdateInput{
		ID:         v.Animal.ID,
		Name:       ptr("Renombrada"),
		Appearance: &animals.AppearanceInput{FurTypeID: ptr(int64(-1))},
	})
	require.True(t, apierror.HasCode(err, apierror.CodeAppearance))

	got, err := f.animals.Get(context.Background(), v.Animal.ID)
	require.NoError(t, err)
	require.Equal(t, "Luna", got.Animal.Name)
}

func TestStore_UpdateAnimal_ColorsFullReplace(t *testing.T) {
	f := newFixture(t)
	v := f.newAnimal(t, 3)

	got, err := f.animals.Update(context.Background(), animals.UpdateInput{
		ID:         v.Animal.ID,
		Appearance: &animals.AppearanceInput{Colors: &[]int64{2, 1}},
	})
	require.NoError(t, err)
	require.Equal(t, []animals.Color{
		{AnimalID: v.Animal.ID, ColorID: 1},
		{AnimalID: v.Animal.ID, ColorID: 2},
	}, got.Colors)
	require.Equal(t, v.Appearance.ID, got.Appearance.ID, "upsert keeps the same appearance row")
}

// failingAdoptionWrite usa el store real pero rechaza el paso 3 (UpdateAdoption).
type failingAdoptionWrite struct{ s *Store }

func (u failingAdoptionWrite) Do(ctx context.Context, fn func(repo adoptions.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(rejectAdoptionUpdate{t}) })
}

type rejectAdoptionUpdate struct{ *tx }

func (rejectAdoptionUpdate) UpdateAdoption(ctx context.Context, a adoptions.Adoption) error {
	return errors.New("disk full")
}

func TestStore_Adoption_ApprovalIsAtomic(t *testing.T) {
	f := newFixture(t)
	a := f.newAnimal(t)
	ctx := context.Background()

	ad, err := f.adoptions.Create(ctx, "V", adoptions.CreateInput{AnimalID: a.Animal.ID})
	require.NoError(t, err)

	failing := adoptions.NewService(failingAdoptionWrite{f.store})
	_, err = failing.Update(ctx, "U", adoptions.UpdateInput{ID: ad.Adoption.ID, Status: adoptions.StatusApproved})
	require.True(t, apierror.HasCode(err, apierror.CodeUpdate))

	// El animal no quedó adopted aunque el paso 2 se había ejecutado.
	got, err := f.animals.Get(ctx, a.Animal.ID)
	require.NoError(t, err)
	require.Equal(t, animals.StatusAvailable, got.Animal.Status)

	view, err := f.adoptions.Get(ctx, "U", ad.Adoption.ID)
	require.NoError(t, err)
	require.Equal(t, adoptions.StatusPending, view.Adoption.Status)
}

func TestStore_Adoption_ConcurrentApprovalsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	a := f.newAnimal(t)
	ctx := context.Background()

	const n = 8
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ad, err := f.adoptions.Create(ctx, "V", adoptions.CreateInput{AnimalID: a.Animal.ID})
		require.NoError(t, err)
		ids = append(ids, ad.Adoption.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.adoptions.Update(ctx, "U", adoptions.UpdateInput{ID: id, Status: adoptions.StatusApproved})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apierror.HasCode(err, apierror.CodeConflict):
				conflicts++
			}
		}(id)
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, conflicts)
}

func TestStore_DeleteAnimal_WithAdoptionsConflicts(t *testing.T) {
	f := newFixture(t)
	a := f.newAnimal(t, 1, 2)
	ctx := context.Background()

	_, err := f.adoptions.Create(ctx, "V", adoptions.CreateInput{AnimalID: a.Animal.ID})
	require.NoError(t, err)

	err = f.animals.Delete(ctx, a.Animal.ID, "U")
	require.True(t, apierror.HasCode(err, apierror.CodeConflict))
	require.Len(t, f.store.st.colors[a.Animal.ID], 2, "colors survive the rolled back delete")
}

func TestStore_CancelledContext(t *testing.T) {
	st := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Shelters().Do(ctx, func(repo shelters.Repository) error {
		return repo.InsertShelter(ctx, shelters.Shelter{ID: "s1"})
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, st.st.shelters)
}

func TestStore_TransitionAnimalStatus(t *testing.T) {
	f := newFixture(t)
	a := f.newAnimal(t)
	ctx := context.Background()

	at := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

	err := f.store.run(ctx, func(t *tx) error {
		return t.TransitionAnimalStatus(ctx, a.Animal.ID, animals.StatusAvailable, animals.StatusAdopted, at)
	})
	require.NoError(t, err)
	require.Equal(t, animals.StatusAdopted, f.store.st.animals[a.Animal.ID].Status)
	require.Equal(t, at, f.store.st.animals[a.Animal.ID].UpdatedAt)

	err = f.store.run(ctx, func(t *tx) error {
		return t.TransitionAnimalStatus(ctx, a.Animal.ID, animals.StatusAvailable, animals.StatusAdopted, at.Add(time.Hour))
	})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.Equal(t, at, f.store.st.animals[a.Animal.ID].UpdatedAt)
}
