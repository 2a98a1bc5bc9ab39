package model

import "time"

// Admin is the single privileged account type for the content backend.
// Passwords are stored as bcrypt hashes and never serialized.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never expose
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminSummary is the public-safe projection of an Admin returned by the
// login endpoint. It deliberately omits timestamps and the hash.
type AdminSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the public-safe projection of a.
func (a *Admin) Summary() AdminSummary {
	return AdminSummary{ID: a.ID, Email: a.Email, Name: a.Name}
}
