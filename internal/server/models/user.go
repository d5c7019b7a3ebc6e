// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Email is stored lowercased and trimmed.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
