package repomanager

import (
	"context"
	"database/sql"

	"github.com/celestia-oracle/celestia/internal/dbx"
	"github.com/celestia-oracle/celestia/internal/server/repositories/sessions"
	"github.com/celestia-oracle/celestia/internal/server/repositories/tokens"
	"github.com/celestia-oracle/celestia/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a specific DBTX, so the
// same repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
