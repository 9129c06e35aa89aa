// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Password always holds a bcrypt hash.
// IsAdmin is derived from UserType once, at registration.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	UserType  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name with a space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserChanges lists the optional fields of a profile update. Empty strings
// mean "leave as is"; Password must already be hashed.
type UserChanges struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}
