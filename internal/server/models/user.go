// Package models declares the plain value records persisted by the server.
// Relationships are expressed as foreign-key fields, not object references;
// back-references are resolved by repository lookups.
package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}
