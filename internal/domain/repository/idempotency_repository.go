package repository

import (
	"context"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository stores replayable responses per user and key
type IdempotencyRepository interface {
	// Find returns nil when the user never used key
	Find(ctx context.Context, userID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	// Save inserts the record or replaces an earlier one for the same user and key
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	// Purge drops records that expired before the given instant
	Purge(ctx context.Context, before time.Time) (int64, error)
}
