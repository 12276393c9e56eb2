package entity

import (
	"time"
)

// Role is the coarse capability tag carried by every user.
// Admins bypass ownership checks on products.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the aggregate root for the identity domain
// Password always holds a bcrypt hash, never plaintext.
type User struct {
	ID        string
	Name      string
	Email     string // stored lowercase, unique
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
