package models

import "github.com/google/uuid"

// Role is declared by the client at login and trusted verbatim.
// There is no server-side identity check behind it.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents the logged-in person. CommunityID stays empty until the
// user forms a community (admins) or is invited into one.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	CommunityID string `json:"communityId,omitempty"`
}

// NewUserID mints an opaque user id.
func NewUserID() string {
	return uuid.NewString()
}
