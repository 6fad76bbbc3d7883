package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey is the stored outcome of a successful bill submission, replayed when
// the till retries with the same key.
type IdempotencyKey struct {
	ID           uint      `gorm:"primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_user_key;size:255;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_idempotency_user_key;not null"`
	Endpoint     string    `gorm:"size:255;not null"`
	ResponseCode int       `gorm:"not null"`
	ContentType  string    `gorm:"size:100"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// Replayable reports whether the record still answers for endpoint at now
func (i *IdempotencyKey) Replayable(endpoint string, now time.Time) bool {
	return i.Endpoint == endpoint && now.Before(i.ExpiresAt)
}
