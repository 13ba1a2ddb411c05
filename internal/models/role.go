package models

import "github.com/google/uuid"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller is the identity the auth gate extracted from the bearer token.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}
