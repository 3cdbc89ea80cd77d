package domain

import "time"

// User is an admin account able to manage site content.
type User struct {
	ID           string
	FullName     string
	EmailAddress string
	PasswordHash string
	ProfilePhoto *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries the optional fields a profile update may change.
// Only non-nil fields are applied.
type UserPatch struct {
	FullName     *string
	ProfilePhoto *string
}
