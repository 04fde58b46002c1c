package models

import "time"

const (
	RoleStudent = "student"
	RoleTrainer = "trainer"

	// RoleUnknown marks a session whose profile lookup has not resolved yet.
	// Role-dependent behavior must not branch on it.
	RoleUnknown = "unknown"
)

func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleTrainer
}

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	EmailConfirmed bool       `json:"email_confirmed"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
