package postgres

import (
	"context"
	"time"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/ports/storage"
)

const adoptionColumns = `id, animal_id, adopter_id, shelter_id, status, message, created_at, updated_at`

func (t *tx) InsertAdoption(ctx context.Context, a adoptions.Adoption) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO adoptions (`+adoptionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID, a.AnimalID, a.AdopterID, a.ShelterID, string(a.Status), a.Message, a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (t *tx) UpdateAdoption(ctx context.Context, a adoptions.Adoption) error {
	return mustAffect(t.q.Exec(ctx, `
		UPDATE adoptions
		SET status = $2, message = $3, updated_at = $4
		WHERE id = $1
	`,
		a.ID, string(a.Status), a.Message, a.UpdatedAt,
	))
}

func (t *tx) GetAdoption(ctx context.Context, id string) (adoptions.Adoption, error) {
	row := t.q.QueryRow(ctx, `SELECT `+adoptionColumns+` FROM adoptions WHERE id = $1`, id)
	return scanAdoption(row)
}

func (t *tx) GetAdoptionForUpdate(ctx context.Context, id string) (adoptions.Adoption, error) {
	row := t.q.QueryRow(ctx, `SELECT `+adoptionColumns+` FROM adoptions WHERE id = $1 FOR UPDATE`, id)
	return scanAdoption(row)
}

func (t *tx) ListAdoptionsByAdopter(ctx context.Context, adopterID string) ([]adoptions.Adoption, error) {
	return t.listAdoptions(ctx, `WHERE adopter_id = $1`, adopterID)
}

func (t *tx) ListAdoptionsByShelter(ctx context.Context, shelterID string) ([]adoptions.Adoption, error) {
	return t.listAdoptions(ctx, `WHERE shelter_id = $1`, shelterID)
}

func (t *tx) listAdoptions(ctx context.Context, where string, arg any) ([]adoptions.Adoption, error) {
	rows, err := t.q.Query(ctx, `
		SELECT `+adoptionColumns+`
		FROM adoptions
		`+where+`
		ORDER BY created_at DESC, id ASC
	`, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]adoptions.Adoption, 0)
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

func scanAdoption(row rowScanner) (adoptions.Adoption, error) {
	var a adoptions.Adoption
	var status string
	if err := row.Scan(&a.ID, &a.AnimalID, &a.AdopterID, &a.ShelterID, &status, &a.Message, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return adoptions.Adoption{}, mapErr(err)
	}
	a.Status = adoptions.Status(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

// GetAnimalForShare toma FOR SHARE: una aprobación concurrente espera a que
// esta unidad termine, o esta ve el estado ya comprometido.
func (t *tx) GetAnimalForShare(ctx context.Context, id string) (animals.Animal, error) {
	row := t.q.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1 FOR SHARE`, id)
	return scanAnimal(row)
}

// TransitionAnimalStatus es un UPDATE condicional: dos aprobaciones
// concurrentes del mismo animal no pueden ganar ambas.
func (t *tx) TransitionAnimalStatus(ctx context.Context, animalID string, from, to animals.Status, at time.Time) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE animals
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`, animalID, string(from), string(to), at)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// 0 filas: o no existe o ya no está en from.
	var exists bool
	if err := t.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)`, animalID).Scan(&exists); err != nil {
		return mapErr(err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrConflict
}
