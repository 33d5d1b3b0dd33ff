package tokens

import (
	"context"
	"time"

	"github.com/celestia-oracle/celestia/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, token, kind string, expiresAt time.Time) error
	Consume(ctx context.Context, token, kind string) (*models.VerificationToken, error)
	DeleteUnconsumed(ctx context.Context, userID int64, kind string) error
	Find(ctx context.Context, token, kind string) (*models.VerificationToken, error)
}
