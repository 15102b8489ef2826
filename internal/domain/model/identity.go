package model

import "time"

// Role scopes what an identity may see and do.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Identity is the acting participant of a request. It is passed explicitly to every operation.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

// Is reports whether the identity holds role r.
func (i Identity) Is(r Role) bool {
	return i.Role == r
}

// User is a registered account backing an Identity.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity strips credentials from the user record.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
