// Package sessions provides a PostgreSQL-backed repository for chat sessions
// and their append-only message logs.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/dbx"
	"github.com/celestia-oracle/celestia/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreate resolves the session owned by userID under key, creating it on
// first use. Concurrent first messages on the same new key cannot produce
// two rows: the insert defers to the (user_id, session_key) unique
// constraint and falls back to a lookup when another writer won.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID int64, key string) (*models.ChatSession, error) {
	query := `
		INSERT INTO chat_sessions (user_id, session_key, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, session_key) DO NOTHING
		RETURNING id, created_at
	`
	session := &models.ChatSession{UserID: userID, SessionKey: key}
	err := r.db.QueryRowContext(ctx, query, userID, key, time.Now().UTC()).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.Get(ctx, userID, key)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

// Get returns the session owned by userID under key, or
// common.ErrorNotFound. The lookup is always scoped to the owner, so a key
// presented by a different user never resolves here.
func (r *PostgresRepository) Get(ctx context.Context, userID int64, key string) (*models.ChatSession, error) {
	query := `
		SELECT id, user_id, session_key, created_at
		FROM chat_sessions
		WHERE user_id = $1 AND session_key = $2
	`
	session := &models.ChatSession{}
	err := r.db.QueryRowContext(ctx, query, userID, key).
		Scan(&session.ID, &session.UserID, &session.SessionKey, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

// AppendMessage inserts one turn into the session log.
func (r *PostgresRepository) AppendMessage(ctx context.Context, sessionID int64, role, content string) (*models.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	msg := &models.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.QueryRowContext(ctx, query, sessionID, role, content, msg.CreatedAt).Scan(&msg.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

// Recent returns up to limit of the most recent messages, oldest first.
// This is the sliding context window, not full history.
func (r *PostgresRepository) Recent(ctx context.Context, sessionID int64, limit int) ([]models.ChatMessage, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// newest-first from the query, oldest-first for the caller
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ClearMessages deletes every message of the session. The session row
// survives so the key stays resolvable with empty history.
func (r *PostgresRepository) ClearMessages(ctx context.Context, sessionID int64) error {
	query := `
		DELETE FROM chat_messages
		WHERE session_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
