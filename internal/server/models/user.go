package models

import "time"

// User is an identity record in the credential store. Email is unique
// case-insensitively; PasswordHash is opaque to everything outside cryptox.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
