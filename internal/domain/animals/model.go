package animals

import (
	"time"

	"kaniu/internal/domain/shelters"
)

// Status es el ciclo de vida del animal. Se crea siempre como available.
// @Enum available, pending, adopted, fostered, hospitalized, lost, deceased, unavailable
type Status string

const (
	StatusAvailable    Status = "available"
	StatusPending      Status = "pending"
	StatusAdopted      Status = "adopted"
	StatusFostered     Status = "fostered"
	StatusHospitalized Status = "hospitalized"
	StatusLost         Status = "lost"
	StatusDeceased     Status = "deceased"
	StatusUnavailable  Status = "unavailable"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusAdopted, StatusFostered,
		StatusHospitalized, StatusLost, StatusDeceased, StatusUnavailable:
		return true
	}
	return false
}

// Gender usa los valores que ya guarda la base.
// @Enum Macho, Fêmea, Indefinido
type Gender string

const (
	GenderMale    Gender = "Macho"
	GenderFemale  Gender = "Fêmea"
	GenderUnknown Gender = "Indefinido"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnknown
}

// Animal pertenece a exactamente un refugio.
type Animal struct {
	ID          string
	Name        string
	Description string

	SpeciesID int64
	BreedID   int64
	Gender    Gender
	Size      string
	BirthDate *time.Time

	ShelterID         string
	Status            Status
	ProfilePictureURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appearance es 1:1 con Animal.
type Appearance struct {
	ID        string
	AnimalID  string
	FurTypeID *int64
	PatternID *int64
	CreatedAt time.Time
}

// Color: el conjunto de un animal siempre se reemplaza completo.
type Color struct {
	AnimalID string
	ColorID  int64
}

// View es el animal compuesto en lectura: refugio + apariencia + colores.
type View struct {
	Animal     Animal
	Shelter    shelters.Shelter
	Appearance *Appearance
	Colors     []Color
}
