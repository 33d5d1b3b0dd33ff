package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/logging"
	"github.com/celestia-oracle/celestia/internal/server/config"
	"github.com/celestia-oracle/celestia/internal/server/llm"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/celestia-oracle/celestia/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ChatService runs conversational turns against the oracle and keeps each
// user's per-session history.
type ChatService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	oracle       llm.Oracle
	logger       logging.Logger
	historyLimit int
	modelTimeout time.Duration
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, oracle llm.Oracle, logger logging.Logger, cfg *config.Config) *ChatService {
	return &ChatService{
		db:           db,
		repomanager:  m,
		oracle:       oracle,
		logger:       logger,
		historyLimit: cfg.HistoryLimit,
		modelTimeout: cfg.ModelTimeout,
	}
}

// Chat runs one conversational turn. A blank sessionKey starts a fresh
// session under a generated key; the key in use is always returned so the
// client can continue the thread. On the first turn of a session the zodiac
// sign, when given, is folded into the stored user message.
//
// The user message is persisted before the model call, so a model failure
// leaves the question in history with no answer row.
func (s *ChatService) Chat(ctx context.Context, userID int64, message, sessionKey, zodiacSign string) (string, string, error) {
	if strings.TrimSpace(message) == "" {
		return "", "", fmt.Errorf("%w: message is required", common.ErrorValidation)
	}
	if sessionKey == "" {
		sessionKey = uuid.NewString()
	}

	repo := s.repomanager.Sessions(s.db)
	sess, err := repo.GetOrCreate(ctx, userID, sessionKey)
	if err != nil {
		s.logger.Error(ctx, "error resolving session", "user_id", userID, "error", err)
		return "", "", common.ErrorInternal
	}

	history, err := repo.Recent(ctx, sess.ID, s.historyLimit)
	if err != nil {
		s.logger.Error(ctx, "error loading history", "session_id", sess.ID, "error", err)
		return "", "", common.ErrorInternal
	}

	if len(history) == 0 && zodiacSign != "" {
		message = fmt.Sprintf("My zodiac sign is %s. %s", zodiacSign, message)
	}

	if _, err := repo.AppendMessage(ctx, sess.ID, models.RoleUser, message); err != nil {
		s.logger.Error(ctx, "error recording user message", "session_id", sess.ID, "error", err)
		return "", "", common.ErrorInternal
	}

	mctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()
	reply, err := s.oracle.Complete(mctx, history, message)
	if err != nil {
		s.logger.Error(ctx, "model completion failed", "session_id", sess.ID, "error", err)
		return "", "", err
	}

	if _, err := repo.AppendMessage(ctx, sess.ID, models.RoleAssistant, reply); err != nil {
		s.logger.Error(ctx, "error recording reply", "session_id", sess.ID, "error", err)
		return "", "", common.ErrorInternal
	}
	return reply, sessionKey, nil
}

// ClearHistory removes every message from the user's session but keeps the
// session row, so the same key continues with an empty context window.
// Clearing a session that does not exist is a no-op.
func (s *ChatService) ClearHistory(ctx context.Context, userID int64, sessionKey string) error {
	repo := s.repomanager.Sessions(s.db)
	sess, err := repo.Get(ctx, userID, sessionKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		s.logger.Error(ctx, "error resolving session", "user_id", userID, "error", err)
		return common.ErrorInternal
	}
	if err := repo.ClearMessages(ctx, sess.ID); err != nil {
		s.logger.Error(ctx, "error clearing history", "session_id", sess.ID, "error", err)
		return common.ErrorInternal
	}
	return nil
}
