package shelters

import "time"

type Address struct {
	Street  string `json:"street"`
	Number  string `json:"number"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

// Shelter es un refugio; tiene exactamente un usuario dueño.
type Shelter struct {
	ID      string
	Name    string
	OwnerID string

	Address     *Address
	ContactInfo *ContactInfo
	PhotoURL    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
