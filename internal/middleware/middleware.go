// Package middleware holds the gin middleware shared by the public API.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// CORS allows the static RSVP site to call the API from the given origins
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	})
}

// RateLimiter limits requests per client IP to perMinute
func RateLimiter(perMinute int64) gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}

// RequestLogger logs every request through zerolog
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	logger := log.With().Str("component", "HTTP").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("origin", c.GetHeader("Origin")).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}
