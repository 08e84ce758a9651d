package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleStaff     Role = "STAFF"
	RoleRequester Role = "REQUESTER"
)

// Privileged reports whether the role may approve loans, process returns
// and manage inventory.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Actor identifies the authenticated caller of a service operation. It is
// passed explicitly into every operation instead of being looked up from
// ambient session state.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
