package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
)

const shelterColumns = `id, name, owner_id, address, contact_info, photo_url, created_at, updated_at`

func (t *tx) InsertShelter(ctx context.Context, s shelters.Shelter) error {
	addr, contact, err := encodeShelterJSON(s)
	if err != nil {
		return err
	}
	_, err = t.q.Exec(ctx, `
		INSERT INTO shelters (`+shelterColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID, s.Name, s.OwnerID, addr, contact, s.PhotoURL, s.CreatedAt, s.UpdatedAt,
	)
	return mapErr(err)
}

func (t *tx) UpdateShelter(ctx context.Context, s shelters.Shelter) error {
	addr, contact, err := encodeShelterJSON(s)
	if err != nil {
		return err
	}
	return mustAffect(t.q.Exec(ctx, `
		UPDATE shelters
		SET name = $2, address = $3, contact_info = $4, photo_url = $5, updated_at = $6
		WHERE id = $1
	`,
		s.ID, s.Name, addr, contact, s.PhotoURL, s.UpdatedAt,
	))
}

func (t *tx) GetShelter(ctx context.Context, id string) (shelters.Shelter, error) {
	row := t.q.QueryRow(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id)
	return scanShelter(row)
}

func (t *tx) ListSheltersByOwner(ctx context.Context, ownerID string) ([]shelters.Shelter, error) {
	rows, err := t.q.Query(ctx, `
		SELECT `+shelterColumns+`
		FROM shelters
		WHERE owner_id = $1
		ORDER BY created_at DESC, id ASC
	`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, mapErr(rows.Err())
}

func scanShelter(row rowScanner) (shelters.Shelter, error) {
	var s shelters.Shelter
	var addr, contact []byte
	if err := row.Scan(&s.ID, &s.Name, &s.OwnerID, &addr, &contact, &s.PhotoURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return shelters.Shelter{}, mapErr(err)
	}
	if len(addr) > 0 {
		s.Address = &shelters.Address{}
		if err := json.Unmarshal(addr, s.Address); err != nil {
			return shelters.Shelter{}, fmt.Errorf("decode shelter address: %w", err)
		}
	}
	if len(contact) > 0 {
		s.ContactInfo = &shelters.ContactInfo{}
		if err := json.Unmarshal(contact, s.ContactInfo); err != nil {
			return shelters.Shelter{}, fmt.Errorf("decode shelter contact: %w", err)
		}
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// address y contact_info son JSONB; nil se guarda como NULL.
func encodeShelterJSON(s shelters.Shelter) (addr, contact []byte, err error) {
	if s.Address != nil {
		if addr, err = json.Marshal(s.Address); err != nil {
			return nil, nil, err
		}
	}
	if s.ContactInfo != nil {
		if contact, err = json.Marshal(s.ContactInfo); err != nil {
			return nil, nil, err
		}
	}
	return addr, contact, nil
}

func (t *tx) UpsertProfile(ctx context.Context, p profiles.Profile) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO profiles (id, name, email, role, avatar_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at
	`,
		p.ID, p.Name, p.Email, string(p.Role), p.AvatarURL, p.CreatedAt, p.UpdatedAt,
	)
	return mapErr(err)
}

func (t *tx) GetProfile(ctx context.Context, id string) (profiles.Profile, error) {
	var p profiles.Profile
	var role string
	err := t.q.QueryRow(ctx, `
		SELECT id, name, email, role, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Email, &role, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return profiles.Profile{}, mapErr(err)
	}
	p.Role = profiles.Role(role)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
