package domain

import "time"

// APIUser is an account allowed to call the analytics API.
type APIUser struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
