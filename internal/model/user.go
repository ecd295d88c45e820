package model

// Role identifies what a user is allowed to see. The backend owns role
// assignment; the client only branches on it.
type Role string

const (
	RoleResident        Role = "RESIDENT"
	RoleBuildingManager Role = "BUILDING_MANAGER"
)

// User represents the authenticated user's profile as returned by the backend.
// Timestamps stay as the ISO strings the backend sends; the client never does
// date arithmetic on them.
type User struct {
	ID         int    `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	UnitID     *int   `json:"unitId,omitempty"`
	BuildingID *int   `json:"buildingId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// IsManager reports whether the profile carries the building-manager role
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleBuildingManager
}
