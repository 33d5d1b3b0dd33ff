package sessions

import (
	"context"

	"github.com/celestia-oracle/celestia/internal/server/models"
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID int64, key string) (*models.ChatSession, error)
	Get(ctx context.Context, userID int64, key string) (*models.ChatSession, error)
	AppendMessage(ctx context.Context, sessionID int64, role, content string) (*models.ChatMessage, error)
	Recent(ctx context.Context, sessionID int64, limit int) ([]models.ChatMessage, error)
	ClearMessages(ctx context.Context, sessionID int64) error
}
