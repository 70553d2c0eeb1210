package adoptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/storage"

	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	adoptions map[string]Adoption
	animals   map[string]animals.Animal
	shelters  map[string]shelters.Shelter
	profiles  map[string]profiles.Profile

	failTransition error
	failUpdate     error

	// lecturas con bloqueo pedidas por el servicio
	lockedAdoptions []string
	sharedAnimals   []string
}

// Escenario base: refugio S del usuario U con el animal A disponible.
func newTestRepo() *testRepo {
	return &testRepo{
		adoptions: map[string]Adoption{},
		animals: map[string]animals.Animal{
			"A": {ID: "A", Name: "Luna", ShelterID: "S", Status: animals.StatusAvailable},
		},
		shelters: map[string]shelters.Shelter{
			"S": {ID: "S", Name: "Patitas", OwnerID: "U"},
		},
		profiles: map[string]profiles.Profile{
			"V": {ID: "V", Name: "Vera", Role: profiles.RoleRegularUser},
		},
	}
}

func (r *testRepo) Do(ctx context.Context, fn func(repo Repository) error) error { return fn(r) }

func (r *testRepo) InsertAdoption(ctx context.Context, a Adoption) error {
	if _, ok := r.animals[a.AnimalID]; !ok {
		return storage.ErrInvalidReference
	}
	r.adoptions[a.ID] = a
	return nil
}

func (r *testRepo) UpdateAdoption(ctx context.Context, a Adoption) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.adoptions[a.ID]; !ok {
		return storage.ErrNotFound
	}
	r.adoptions[a.ID] = a
	return nil
}

func (r *testRepo) GetAdoption(ctx context.Context, id string) (Adoption, error) {
	a, ok := r.adoptions[id]
	if !ok {
		return Adoption{}, storage.ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetAdoptionForUpdate(ctx context.Context, id string) (Adoption, error) {
	r.lockedAdoptions = append(r.lockedAdoptions, id)
	return r.GetAdoption(ctx, id)
}

func (r *testRepo) ListAdoptionsByAdopter(ctx context.Context, adopterID string) ([]Adoption, error) {
	out := make([]Adoption, 0)
	for _, a := range r.adoptions {
		if a.AdopterID == adopterID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListAdoptionsByShelter(ctx context.Context, shelterID string) ([]Adoption, error) {
	out := make([]Adoption, 0)
	for _, a := range r.adoptions {
		if a.ShelterID == shelterID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) GetAnimal(ctx context.Context, id string) (animals.Animal, error) {
	a, ok := r.animals[id]
	if !ok {
		return animals.Animal{}, storage.ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetAnimalForShare(ctx context.Context, id string) (animals.Animal, error) {
	r.sharedAnimals = append(r.sharedAnimals, id)
	return r.GetAnimal(ctx, id)
}

func (r *testRepo) TransitionAnimalStatus(ctx context.Context, animalID string, from, to animals.Status, at time.Time) error {
	if r.failTransition != nil {
		return r.failTransition
	}
	a, ok := r.animals[animalID]
	if !ok {
		return storage.ErrNotFound
	}
	if a.Status != from {
		return storage.ErrConflict
	}
	a.Status = to
	a.UpdatedAt = at
	r.animals[animalID] = a
	return nil
}

func (r *testRepo) GetShelter(ctx context.Context, id string) (shelters.Shelter, error) {
	sh, ok := r.shelters[id]
	if !ok {
		return shelters.Shelter{}, storage.ErrNotFound
	}
	return sh, nil
}

func (r *testRepo) GetProfile(ctx context.Context, id string) (profiles.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return profiles.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Scenario_RequestApproveRequestAgain(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	v, err := svc.Create(ctx, "V", CreateInput{AnimalID: "A", Message: "tengo patio"})
	require.NoError(t, err)
	require.Equal(t, StatusPending, v.Adoption.Status)
	require.Equal(t, "S", v.Adoption.ShelterID)
	require.Equal(t, "S", v.Shelter.ID)
	require.NotNil(t, v.Adopter)
	require.Equal(t, "Vera", v.Adopter.Name)

	approved, err := svc.Update(ctx, "U", UpdateInput{ID: v.Adoption.ID, Status: StatusApproved})
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Adoption.Status)
	require.Equal(t, animals.StatusAdopted, approved.Animal.Status)
	require.Equal(t, animals.StatusAdopted, repo.animals["A"].Status)
	require.Equal(t, "tengo patio", approved.Adoption.Message, "message untouched when omitted")

	_, err = svc.Create(ctx, "W", CreateInput{AnimalID: "A"})
	require.True(t, apierror.HasCode(err, apierror.CodeInvalidStatus))
	require.Len(t, repo.adoptions, 1)
}

func TestService_Create_UnknownAnimalIsFetchError(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "V", CreateInput{AnimalID: "ghost"})
	require.True(t, apierror.HasCode(err, apierror.CodeFetch))
}

func TestService_Create_AdopterWithoutProfile(t *testing.T) {
	svc := NewService(newTestRepo())

	v, err := svc.Create(context.Background(), "no-profile", CreateInput{AnimalID: "A"})
	require.NoError(t, err)
	require.Nil(t, v.Adopter)
}

func TestService_Update_NonOwnerMutatesNothing(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	v, err := svc.Create(context.Background(), "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "V", UpdateInput{ID: v.Adoption.ID, Status: StatusApproved})
	require.True(t, apierror.HasCode(err, apierror.CodeUnauthorized))
	require.Equal(t, StatusPending, repo.adoptions[v.Adoption.ID].Status)
	require.Equal(t, animals.StatusAvailable, repo.animals["A"].Status)
}

func TestService_Update_MissingAdoptionIsFetchError(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Update(context.Background(), "U", UpdateInput{ID: "ghost", Status: StatusRejected})
	require.True(t, apierror.HasCode(err, apierror.CodeFetch))
}

func TestService_Update_InvalidStatusValue(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Update(context.Background(), "U", UpdateInput{ID: "x", Status: "done"})
	require.True(t, apierror.HasCode(err, apierror.CodeInvalidInput))
}

func TestService_Update_SecondApprovalIsConflict(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "W", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "U", UpdateInput{ID: first.Adoption.ID, Status: StatusApproved})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "U", UpdateInput{ID: second.Adoption.ID, Status: StatusApproved})
	require.True(t, apierror.HasCode(err, apierror.CodeConflict))
	require.Equal(t, StatusPending, repo.adoptions[second.Adoption.ID].Status)
}

func TestService_Update_AnimalWriteFailureSkipsAdoptionWrite(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	v, err := svc.Create(context.Background(), "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	repo.failTransition = errors.New("row locked")
	_, err = svc.Update(context.Background(), "U", UpdateInput{ID: v.Adoption.ID, Status: StatusApproved})
	require.True(t, apierror.HasCode(err, apierror.CodeUpdate))
	require.Equal(t, StatusPending, repo.adoptions[v.Adoption.ID].Status)
}

func TestService_Update_RejectKeepsAnimalAvailable(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	v, err := svc.Create(context.Background(), "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	msg := "ya no hay cupo"
	out, err := svc.Update(context.Background(), "U", UpdateInput{ID: v.Adoption.ID, Status: StatusRejected, Message: &msg})
	require.NoError(t, err)
	require.Equal(t, StatusRejected, out.Adoption.Status)
	require.Equal(t, msg, out.Adoption.Message)
	require.Equal(t, animals.StatusAvailable, repo.animals["A"].Status)
}

func TestService_Get_AdopterOrOwnerOnly(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	v, err := svc.Create(ctx, "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "V", v.Adoption.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "U", v.Adoption.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "stranger", v.Adoption.ID)
	require.True(t, apierror.HasCode(err, apierror.CodeUnauthorized))
	_, err = svc.Get(ctx, "V", "ghost")
	require.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestService_ListByShelter_OwnerOnly(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)

	items, err := svc.ListByShelter(ctx, "U", "S")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.ListByShelter(ctx, "V", "S")
	require.True(t, apierror.HasCode(err, apierror.CodeUnauthorized))

	mine, err := svc.ListMine(ctx, "V")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestService_Update_ApprovedAdoptionIsFinal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	v, err := svc.Create(ctx, "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "U", UpdateInput{ID: v.Adoption.ID, Status: StatusApproved})
	require.NoError(t, err)

	for _, st := range []Status{StatusRejected, StatusCancelled, StatusPending, StatusApproved} {
		_, err = svc.Update(ctx, "U", UpdateInput{ID: v.Adoption.ID, Status: st})
		require.True(t, apierror.HasCode(err, apierror.CodeInvalidStatus), "status %s", st)
	}
	require.Equal(t, StatusApproved, repo.adoptions[v.Adoption.ID].Status)
	require.Equal(t, animals.StatusAdopted, repo.animals["A"].Status)
}

func TestService_Update_LocksAdoptionAndStampsAnimal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	v, err := svc.Create(context.Background(), "V", CreateInput{AnimalID: "A"})
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, repo.sharedAnimals)

	out, err := svc.Update(context.Background(), "U", UpdateInput{ID: v.Adoption.ID, Status: StatusApproved})
	require.NoError(t, err)
	require.Equal(t, []string{v.Adoption.ID}, repo.lockedAdoptions)
	require.Equal(t, now, out.Animal.UpdatedAt)
	require.Equal(t, now, out.Adoption.UpdatedAt)
}
