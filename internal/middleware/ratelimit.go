package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/slicc-sle-calculator/internal/domain"
)

// DefaultMaxClients bounds the number of tracked client buckets.
const DefaultMaxClients = 10000

// ClientLimiters keeps one token bucket per client key. The least recently
// seen clients are evicted once MaxClients buckets exist.
type ClientLimiters struct {
	limit   rate.Limit
	burst   int
	buckets *lru.Cache[string, *rate.Limiter]
}

// NewClientLimiters builds per-client buckets from the rate limit configuration.
func NewClientLimiters(cfg domain.RateLimitConfig) (*ClientLimiters, error) {
	size := cfg.MaxClients
	if size <= 0 {
		size = DefaultMaxClients
	}
	buckets, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create client limiter cache: %w", err)
	}
	return &ClientLimiters{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		buckets: buckets,
	}, nil
}

// Get returns the bucket of key, creating it on first use.
func (l *ClientLimiters) Get(key string) *rate.Limiter {
	if limiter, ok := l.buckets.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	if prev, ok, _ := l.buckets.PeekOrAdd(key, limiter); ok {
		return prev
	}
	return limiter
}

// Len returns the number of tracked clients.
func (l *ClientLimiters) Len() int {
	return l.buckets.Len()
}

// RateLimit rejects requests with 429 once the caller's token bucket is empty.
// Clients are keyed by c.ClientIP().
func RateLimit(limiters *ClientLimiters, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := limiters.Get(clientIP)
		if !limiter.Allow() {
			correlationID := c.GetString(CorrelationIDKey)
			logger.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"path":           c.Request.URL.Path,
				"client_ip":      clientIP,
			}).Warn("Rate limit exceeded")

			c.Header("Retry-After", retryAfter(limiter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				domain.NewSLICCError(domain.ErrRateLimit, "Too many requests", "", correlationID))
			return
		}
		c.Next()
	}
}

func retryAfter(limiter *rate.Limiter) string {
	if limiter.Limit() <= 0 {
		return "60"
	}
	secs := int(math.Round(1 / float64(limiter.Limit())))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
