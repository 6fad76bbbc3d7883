package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/config"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for AuthMiddleware
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, id)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret")
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "Ravi", "ravi@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c).String()+"|"+c.GetString(ContextUserName))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != userID.String()+"|Ravi" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	alice, bob := uuid.New(), uuid.New()
	current := alice
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(ContextUserID, current); c.Next() })
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func() int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	if hit() != http.StatusOK || hit() != http.StatusOK {
		t.Fatal("burst requests should pass")
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", code)
	}

	current = bob
	if code := hit(); code != http.StatusOK {
		t.Errorf("other user: status = %d, want 200", code)
	}
}

func TestRateLimiterConfigFromWindow(t *testing.T) {
	cfg := RateLimiterConfigFromWindow(120, 60)
	if cfg.RequestsPerSecond != 2 || cfg.BurstSize != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	cfg = RateLimiterConfigFromWindow(0, 0)
	if cfg.BurstSize != 100 {
		t.Errorf("defaults = %+v", cfg)
	}
}

type memIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemIdempotencyRepo() *memIdempotencyRepo {
	return &memIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memIdempotencyRepo) Find(ctx context.Context, userID uuid.UUID, key string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[userID.String()+key], nil
}

func (r *memIdempotencyRepo) Save(ctx context.Context, record *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[record.UserID.String()+record.Key] = record
	return nil
}

func (r *memIdempotencyRepo) Purge(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, v := range r.keys {
		if v.ExpiresAt.Before(before) {
			delete(r.keys, k)
			n++
		}
	}
	return n, nil
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	var calls int32
	userID := uuid.New()

	router := gin.New()
	router.Use(withUser(userID))
	router.POST("/bills", Idempotency(IdempotencyConfig{Repo: newMemIdempotencyRepo(), Logger: zap.NewNop()}),
		func(c *gin.Context) {
			n := atomic.AddInt32(&calls, 1)
			c.JSON(http.StatusCreated, gin.H{"bill": n})
		})

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bills", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = post("k1")
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("handler ran %d times, want 1", got)
	}
	for i, w := range results {
		if w.Code != http.StatusCreated || w.Body.String() != `{"bill":1}` {
			t.Errorf("response %d = %d %s", i, w.Code, w.Body)
		}
	}

	post("")
	post("k2")
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("handler ran %d times, want 3", got)
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	var calls int32
	router := gin.New()
	router.Use(withUser(uuid.New()))
	router.POST("/bills", Idempotency(IdempotencyConfig{Repo: newMemIdempotencyRepo(), Logger: zap.NewNop()}),
		func(c *gin.Context) {
			if atomic.AddInt32(&calls, 1) == 1 {
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient_stock"})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

	for i, want := range []int{http.StatusConflict, http.StatusCreated, http.StatusCreated} {
		req := httptest.NewRequest(http.MethodPost, "/bills", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-me")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("attempt %d: status = %d, want %d", i, w.Code, want)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotencyKeyBoundToEndpoint(t *testing.T) {
	userID := uuid.New()
	repo := newMemIdempotencyRepo()
	cfg := IdempotencyConfig{Repo: repo, Logger: zap.NewNop()}

	router := gin.New()
	router.Use(withUser(userID))
	router.POST("/bills", Idempotency(cfg), func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"bill": 1}) })
	router.POST("/bills/:id/invoice", Idempotency(cfg), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyKeyHeader, "shared")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := send("/bills"); w.Code != http.StatusCreated {
		t.Fatalf("first post = %d", w.Code)
	}
	if w := send("/bills/1/invoice"); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("reused key on another route = %d, want 422", w.Code)
	}

	// an expired record no longer answers and gets replaced
	repo.keys[userID.String()+"shared"].ExpiresAt = time.Now().Add(-time.Minute)
	w := send("/bills/1/invoice")
	if w.Code != http.StatusOK || w.Header().Get(IdempotencyReplayedHeader) != "" {
		t.Errorf("after expiry = %d replayed=%q", w.Code, w.Header().Get(IdempotencyReplayedHeader))
	}
	if got := repo.keys[userID.String()+"shared"]; got.Endpoint != "POST /bills/:id/invoice" {
		t.Errorf("stored endpoint = %q", got.Endpoint)
	}
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(zap.NewNop()))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.Len() == 0 || w.Header().Get("X-Request-ID") != w.Body.String() {
		t.Errorf("request id header %q, body %q", w.Header().Get("X-Request-ID"), w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != "abc" {
		t.Errorf("incoming request id not kept: %q", w.Body.String())
	}
}

func TestWithRequiredHeaders(t *testing.T) {
	got := withRequiredHeaders([]string{"Content-Type", "authorization"})
	want := []string{"Content-Type", "authorization", IdempotencyKeyHeader}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCORSPreflightAllowsIdempotencyKey(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"http://till.local"}}))
	router.POST("/bills", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/bills", nil)
	req.Header.Set("Origin", "http://till.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://till.local" {
		t.Errorf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(strings.ToLower(got), "idempotency-key") {
		t.Errorf("allow headers = %q", got)
	}
}
