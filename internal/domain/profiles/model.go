package profiles

import "time"

// Role del perfil.
// @Enum admin, shelter_admin, regular_user
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleShelterAdmin Role = "shelter_admin"
	RoleRegularUser  Role = "regular_user"
)

// Profile: el ID es el mismo del principal del servicio de auth.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	AvatarURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}
