// Package repomanager wires the PostgreSQL repositories together and owns
// schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/celestia-oracle/celestia/internal/dbx"
	"github.com/celestia-oracle/celestia/internal/server/migrations"
	"github.com/celestia-oracle/celestia/internal/server/repositories/sessions"
	"github.com/celestia-oracle/celestia/internal/server/repositories/tokens"
	"github.com/celestia-oracle/celestia/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
