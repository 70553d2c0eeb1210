package postgres

import (
	"context"
	"errors"

	"kaniu/internal/domain/animals"
	"kaniu/internal/ports/storage"
)

const animalColumns = `id, name, description, species_id, breed_id, gender, size, birth_date,
	shelter_id, status, profile_picture_url, created_at, updated_at`

func (t *tx) InsertAnimal(ctx context.Context, a animals.Animal) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID, a.Name, a.Description, a.SpeciesID, a.BreedID, string(a.Gender), a.Size, a.BirthDate,
		a.ShelterID, string(a.Status), a.ProfilePictureURL, a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (t *tx) UpdateAnimal(ctx context.Context, a animals.Animal) error {
	return mustAffect(t.q.Exec(ctx, `
		UPDATE animals
		SET
			name = $2,
			description = $3,
			species_id = $4,
			breed_id = $5,
			gender = $6,
			size = $7,
			birth_date = $8,
			shelter_id = $9,
			status = $10,
			profile_picture_url = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID, a.Name, a.Description, a.SpeciesID, a.BreedID, string(a.Gender), a.Size, a.BirthDate,
		a.ShelterID, string(a.Status), a.ProfilePictureURL, a.UpdatedAt,
	))
}

func (t *tx) GetAnimal(ctx context.Context, id string) (animals.Animal, error) {
	row := t.q.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	return scanAnimal(row)
}

// DeleteAnimal: apariencia y colores caen por ON DELETE CASCADE; una adopción
// que lo referencia hace fallar el DELETE (RESTRICT) y se devuelve ErrConflict.
func (t *tx) DeleteAnimal(ctx context.Context, id string) error {
	err := mustAffect(t.q.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id))
	if errors.Is(err, storage.ErrInvalidReference) {
		return storage.ErrConflict
	}
	return err
}

func (t *tx) ListAnimalsByShelter(ctx context.Context, shelterID string) ([]animals.Animal, error) {
	return t.listAnimals(ctx, `WHERE shelter_id = $1`, shelterID)
}

func (t *tx) ListAnimalsByStatus(ctx context.Context, status animals.Status) ([]animals.Animal, error) {
	return t.listAnimals(ctx, `WHERE status = $1`, string(status))
}

func (t *tx) listAnimals(ctx context.Context, where string, arg any) ([]animals.Animal, error) {
	rows, err := t.q.Query(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		`+where+`
		ORDER BY created_at DESC, id ASC
	`, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var gender, status string
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.SpeciesID,
		&a.BreedID,
		&gender,
		&a.Size,
		&a.BirthDate,
		&a.ShelterID,
		&status,
		&a.ProfilePictureURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, mapErr(err)
	}
	a.Gender = animals.Gender(gender)
	a.Status = animals.Status(status)
	// birth_date es DATE: pgx lo trae como medianoche UTC
	a.BirthDate = utcPtr(a.BirthDate)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (t *tx) GetAppearance(ctx context.Context, animalID string) (animals.Appearance, error) {
	var ap animals.Appearance
	err := t.q.QueryRow(ctx, `
		SELECT id, animal_id, fur_type_id, pattern_id, created_at
		FROM animal_appearances
		WHERE animal_id = $1
	`, animalID).Scan(&ap.ID, &ap.AnimalID, &ap.FurTypeID, &ap.PatternID, &ap.CreatedAt)
	if err != nil {
		return animals.Appearance{}, mapErr(err)
	}
	ap.CreatedAt = ap.CreatedAt.UTC()
	return ap, nil
}

// UpsertAppearance: una fila por animal (UNIQUE animal_id). En conflicto se
// conservan id y created_at de la fila existente.
func (t *tx) UpsertAppearance(ctx context.Context, ap animals.Appearance) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO animal_appearances (id, animal_id, fur_type_id, pattern_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (animal_id) DO UPDATE
		SET fur_type_id = EXCLUDED.fur_type_id,
			pattern_id = EXCLUDED.pattern_id
	`,
		ap.ID, ap.AnimalID, ap.FurTypeID, ap.PatternID, ap.CreatedAt,
	)
	return mapErr(err)
}

func (t *tx) DeleteColors(ctx context.Context, animalID string) error {
	_, err := t.q.Exec(ctx, `DELETE FROM animal_colors WHERE animal_id = $1`, animalID)
	return mapErr(err)
}

// InsertColors inserta el conjunto en una sola sentencia. La PK
// (animal_id, color_id) hace que un duplicado sea ErrConflict.
func (t *tx) InsertColors(ctx context.Context, animalID string, colorIDs []int64) error {
	if len(colorIDs) == 0 {
		return nil
	}
	_, err := t.q.Exec(ctx, `
		INSERT INTO animal_colors (animal_id, color_id)
		SELECT $1, c FROM unnest($2::bigint[]) AS c
	`, animalID, colorIDs)
	return mapErr(err)
}

func (t *tx) ListColors(ctx context.Context, animalID string) ([]animals.Color, error) {
	rows, err := t.q.Query(ctx, `
		SELECT animal_id, color_id
		FROM animal_colors
		WHERE animal_id = $1
		ORDER BY color_id ASC
	`, animalID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]animals.Color, 0)
	for rows.Next() {
		var c animals.Color
		if err := rows.Scan(&c.AnimalID, &c.ColorID); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}
