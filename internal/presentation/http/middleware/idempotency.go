package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
}

// capturingWriter tees the handler's output so it can be stored for replay
type capturingWriter struct {
	gin.ResponseWriter
	captured bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.captured.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.captured.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// keyLocks serializes requests that carry the same user and key
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyLocks) lock(id string) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &keyLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

// Idempotency replays the stored response of a POST that already succeeded with the
// same Idempotency-Key, so a retried bill submission never bills twice. Only 2xx
// responses are remembered; failed attempts may be retried with the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	locks := &keyLocks{locks: make(map[string]*keyLock)}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		if len(idempotencyKey) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Next()
			return
		}

		unlock := locks.lock(userID.String() + "|" + idempotencyKey)
		defer unlock()

		ctx := c.Request.Context()
		endpoint := c.Request.Method + " " + c.FullPath()
		now := time.Now()

		existing, err := config.Repo.Find(ctx, userID, idempotencyKey)
		if err != nil {
			config.Logger.Error("failed to look up idempotency key", zap.Error(err))
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}
		if existing != nil && now.Before(existing.ExpiresAt) {
			if !existing.Replayable(endpoint, now) {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for another request")
				c.Abort()
				return
			}
			contentType := existing.ContentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, contentType, []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		record := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			UserID:       userID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ContentType:  w.Header().Get("Content-Type"),
			ResponseBody: w.captured.String(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Save(ctx, record); err != nil {
			config.Logger.Warn("failed to store idempotency key",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
	}
}
