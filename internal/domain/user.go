package domain

import "time"

// User is an authoring identity. Password hashes never cross the API surface.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthResult pairs a signed token with the user it identifies.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
