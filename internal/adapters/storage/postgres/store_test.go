package postgres

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/ports/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var txOpts = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStore(mock)
}

func TestStore_CommitsWhenUnitSucceeds(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectExec("DELETE FROM animal_colors").WithArgs("a1").WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO animal_colors").WithArgs("a1", []int64{1, 2}).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := st.Animals().Do(context.Background(), func(repo animals.Repository) error {
		if err := repo.DeleteColors(context.Background(), "a1"); err != nil {
			return err
		}
		return repo.InsertColors(context.Background(), "a1", []int64{1, 2})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RollsBackOnError(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectExec("DELETE FROM animal_colors").WithArgs("a1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO animal_colors").
		WithArgs("a1", []int64{99}).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "animal_colors_color_id_check"})
	mock.ExpectRollback()

	err := st.Animals().Do(context.Background(), func(repo animals.Repository) error {
		if err := repo.DeleteColors(context.Background(), "a1"); err != nil {
			return err
		}
		return repo.InsertColors(context.Background(), "a1", []int64{99})
	})
	require.ErrorIs(t, err, storage.ErrInvalidReference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertColors_DuplicateIsConflict(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectExec("INSERT INTO animal_colors").
		WithArgs("a1", []int64{4, 4}).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "animal_colors_pkey"})
	mock.ExpectRollback()

	err := st.Animals().Do(context.Background(), func(repo animals.Repository) error {
		return repo.InsertColors(context.Background(), "a1", []int64{4, 4})
	})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TransitionAnimalStatus(t *testing.T) {
	at := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		name     string
		affected int64
		exists   bool
		want     error
	}{
		{name: "transitioned", affected: 1},
		{name: "already adopted", affected: 0, exists: true, want: storage.ErrConflict},
		{name: "unknown animal", affected: 0, exists: false, want: storage.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock, st := newMock(t)

			mock.ExpectBeginTx(txOpts)
			mock.ExpectExec("UPDATE animals SET status").
				WithArgs("a1", "available", "adopted", at).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))
			if tc.affected == 0 {
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("a1").
					WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(tc.exists))
				mock.ExpectRollback()
			} else {
				mock.ExpectCommit()
			}

			err := st.Adoptions().Do(context.Background(), func(repo adoptions.Repository) error {
				return repo.TransitionAnimalStatus(context.Background(), "a1", animals.StatusAvailable, animals.StatusAdopted, at)
			})
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.want)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_DeleteAnimal_ReferencedByAdoptionIsConflict(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectExec("DELETE FROM animals").
		WithArgs("a1").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "adoptions_animal_id_fkey"})
	mock.ExpectRollback()

	err := st.Animals().Do(context.Background(), func(repo animals.Repository) error {
		return repo.DeleteAnimal(context.Background(), "a1")
	})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateAdoption_NoRowsIsNotFound(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectExec("UPDATE adoptions").
		WithArgs("ghost", "rejected", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := st.Adoptions().Do(context.Background(), func(repo adoptions.Repository) error {
		return repo.UpdateAdoption(context.Background(), adoptions.Adoption{ID: "ghost", Status: adoptions.StatusRejected})
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

var (
	adoptionCols = []string{"id", "animal_id", "adopter_id", "shelter_id", "status", "message", "created_at", "updated_at"}
	animalCols   = []string{"id", "name", "description", "species_id", "breed_id", "gender", "size", "birth_date",
		"shelter_id", "status", "profile_picture_url", "created_at", "updated_at"}
)

func TestStore_GetAdoptionForUpdate_LocksRow(t *testing.T) {
	mock, st := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery(`FROM adoptions WHERE id = \$1 FOR UPDATE`).
		WithArgs("ad1").
		WillReturnRows(mock.NewRows(adoptionCols).
			AddRow("ad1", "a1", "V", "s1", "pending", "", created, created))
	mock.ExpectCommit()

	var got adoptions.Adoption
	err := st.Adoptions().Do(context.Background(), func(repo adoptions.Repository) error {
		a, err := repo.GetAdoptionForUpdate(context.Background(), "ad1")
		got = a
		return err
	})
	require.NoError(t, err)
	require.Equal(t, adoptions.StatusPending, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetAnimalForShare_LocksRow(t *testing.T) {
	mock, st := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery(`FROM animals WHERE id = \$1 FOR SHARE`).
		WithArgs("a1").
		WillReturnRows(mock.NewRows(animalCols).
			AddRow("a1", "Luna", "", int64(1), int64(2), "Fêmea", "", nil, "s1", "adopted", "", created, created))
	mock.ExpectCommit()

	var got animals.Animal
	err := st.Adoptions().Do(context.Background(), func(repo adoptions.Repository) error {
		a, err := repo.GetAnimalForShare(context.Background(), "a1")
		got = a
		return err
	})
	require.NoError(t, err)
	require.Equal(t, animals.StatusAdopted, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetShelter_NoRowsIsNotFound(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM shelters WHERE id").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := st.Shelters().Do(context.Background(), func(repo shelters.Repository) error {
		_, err := repo.GetShelter(context.Background(), "ghost")
		return err
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetProfile(t *testing.T) {
	mock, st := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM profiles").
		WithArgs("V").
		WillReturnRows(mock.NewRows([]string{"id", "name", "email", "role", "avatar_url", "created_at", "updated_at"}).
			AddRow("V", "Vera", "vera@example.com", "regular_user", "", created, created))
	mock.ExpectCommit()

	var got profiles.Profile
	err := st.Profiles().Do(context.Background(), func(repo profiles.Repository) error {
		p, err := repo.GetProfile(context.Background(), "V")
		got = p
		return err
	})
	require.NoError(t, err)
	require.Equal(t, profiles.RoleRegularUser, got.Role)
	require.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BeginFailure(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBeginTx(txOpts).WillReturnError(errors.New("too many connections"))

	called := false
	err := st.Shelters().Do(context.Background(), func(repo shelters.Repository) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_AreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	for _, name := range names {
		raw, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(raw), "-- +goose Up"), name)
		require.Contains(t, string(raw), "-- +goose Down", name)
	}
}
