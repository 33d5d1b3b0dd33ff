// Package tokens provides a PostgreSQL-backed ledger of single-use
// verification and password-reset tokens.
package tokens

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

// Create inserts a fresh unconsumed token row.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, token, kind string, expiresAt time.Time) error {
	query := `
		INSERT INTO verification_tokens (user_id, token, token_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, kind, expiresAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume flips consumed on the matching unconsumed token and returns the
// row. The conditional UPDATE makes concurrent consumes of the same string
// yield exactly one winner; the loser sees common.ErrorNotFound, which also
// covers tokens that never existed. Expiry is NOT checked here so the caller
// can distinguish expired-but-present and roll the flip back.
func (r *PostgresRepository) Consume(ctx context.Context, token, kind string) (*models.VerificationToken, error) {
	query := `
		UPDATE verification_tokens SET consumed = TRUE
		WHERE token = $1 AND token_type = $2 AND consumed = FALSE
		RETURNING id, user_id, expires_at, created_at
	`
	row := &models.VerificationToken{Token: token, Kind: kind, Consumed: true}
	err := r.db.QueryRowContext(ctx, query, token, kind).
		Scan(&row.ID, &row.UserID, &row.ExpiresAt, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// DeleteUnconsumed purges all live tokens of the given (user, kind) pair.
// Issuing a new token supersedes older ones through this purge.
func (r *PostgresRepository) DeleteUnconsumed(ctx context.Context, userID int64, kind string) error {
	query := `
		DELETE FROM verification_tokens
		WHERE user_id = $1 AND token_type = $2 AND consumed = FALSE
	`
	if _, err := r.db.ExecContext(ctx, query, userID, kind); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the token row regardless of consumed state, or
// common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token, kind string) (*models.VerificationToken, error) {
	query := `
		SELECT id, user_id, token, token_type, expires_at, consumed, created_at
		FROM verification_tokens
		WHERE token = $1 AND token_type = $2
	`
	row := &models.VerificationToken{}
	err := r.db.QueryRowContext(ctx, query, token, kind).
		Scan(&row.ID, &row.UserID, &row.Token, &row.Kind, &row.ExpiresAt, &row.Consumed, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}
