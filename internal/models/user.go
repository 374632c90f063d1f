package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// FullName is how a user is presented in lists and executor selectors.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
