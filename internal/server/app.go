// Package server initializes and runs the application: it opens the
// database, applies migrations, wires services, and serves the HTTP API
// until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/celestia-oracle/celestia/internal/logging"
	"github.com/celestia-oracle/celestia/internal/server/config"
	"github.com/celestia-oracle/celestia/internal/server/email"
	"github.com/celestia-oracle/celestia/internal/server/httpapi"
	"github.com/celestia-oracle/celestia/internal/server/llm"
	"github.com/celestia-oracle/celestia/internal/server/repositories/repomanager"
	"github.com/celestia-oracle/celestia/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	repos   repomanager.RepositoryManager
	handler *httpapi.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	mailer := email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.FromEmail, cfg.AppURL, logger)

	var oracle llm.Oracle
	if cfg.OpenAIAPIKey != "" {
		oracle, err = llm.NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.ModelName)
		if err != nil {
			return nil, fmt.Errorf("oracle init error: %w", err)
		}
	} else {
		oracle = llm.Unavailable{}
	}

	userService := services.NewUserService(db, rm, mailer, logger, cfg)
	chatService := services.NewChatService(db, rm, oracle, logger, cfg)

	handler := httpapi.NewHandler(userService, chatService, db, logger,
		[]byte(cfg.SecretKey), cfg.OpenAIAPIKey != "")

	return &App{config: cfg, logger: logger, db: db, repos: rm, handler: handler}, nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.handler.InitRoutes(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
