package models

import "time"

// Token kinds. A token is usable for exactly one kind of state transition.
const (
	TokenKindEmailVerification = "email_verification"
	TokenKindPasswordReset     = "password_reset"
)

// VerificationToken is a single-use, time-bound capability owned by a user.
// Consumed transitions false to true exactly once and never back.
type VerificationToken struct {
	ID        int64
	UserID    int64
	Token     string
	Kind      string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}
