package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	devOrigins     = []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"}
	billingMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	// headers the till frontend always needs, whatever the configuration says
	requiredHeaders = []string{"Authorization", IdempotencyKeyHeader}
	baseHeaders     = []string{"Accept", "Content-Type", "Origin", "X-Request-ID"}
	exposedHeaders  = []string{
		"Content-Length", "Content-Type", "Content-Disposition",
		"X-Request-ID", IdempotencyReplayedHeader,
	}
)

// CORSMiddleware lets the billing frontend call the API and read invoice downloads
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = devOrigins
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = billingMethods
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = baseHeaders
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     withRequiredHeaders(headers),
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func withRequiredHeaders(headers []string) []string {
	out := slices.Clone(headers)
	for _, h := range requiredHeaders {
		if !slices.ContainsFunc(out, func(existing string) bool { return strings.EqualFold(existing, h) }) {
			out = append(out, h)
		}
	}
	return out
}
