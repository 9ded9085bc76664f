package model

import "time"

// Profile is the persisted user record, distinct from the raw authentication
// identity. Its ID is shared with the auth user. Created once at signup and
// never mutated by this system.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Branch    string    `json:"branch"`
	Semester  int       `json:"semester"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the authentication identity. The password hash never leaves the
// repository and service layers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
