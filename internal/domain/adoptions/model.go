package adoptions

import (
	"time"

	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
)

// Status del pedido de adopción.
// @Enum pending, approved, rejected, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Adoption struct {
	ID string

	AnimalID  string
	AdopterID string // quien pide
	ShelterID string // denormalizado desde el animal al crear

	Status  Status
	Message string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// View: Adopter es nil si el principal todavía no cargó su perfil.
type View struct {
	Adoption Adoption
	Animal   animals.Animal
	Adopter  *profiles.Profile
	Shelter  shelters.Shelter
}
