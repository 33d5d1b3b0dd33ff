package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is one conversation thread. SessionKey is the externally
// visible identifier and is unique per owning user, so the same key string
// presented by two users resolves to two independent sessions.
type ChatSession struct {
	ID         int64
	UserID     int64
	SessionKey string
	CreatedAt  time.Time
}

// ChatMessage is one turn in a session. Ordering is by creation time with
// insertion id as the tie-breaker.
type ChatMessage struct {
	ID        int64
	SessionID int64
	Role      string
	Content   string
	CreatedAt time.Time
}
