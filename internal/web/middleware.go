package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RequestLogger logs HTTP requests with timing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// SecurityHeaders adds security headers to responses. Scripts and styles
// may come from the Leaflet CDN and map tiles from any HTTPS host.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy",
			"default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https:")
		c.Header("Permissions-Policy", "microphone=(), camera=()")

		c.Next()
	}
}

// maxTrackedClients bounds how many client IPs keep a limiter at once
const maxTrackedClients = 4096

// IPRateLimiter manages per-IP rate limiters. The least recently seen
// client is dropped once the table is full.
type IPRateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter. A burst below one
// is raised to one.
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return newIPRateLimiter(perSecond, burst, maxTrackedClients)
}

func newIPRateLimiter(perSecond float64, burst, size int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	if size < 1 {
		size = 1
	}
	// lru.New only fails for a non-positive size
	limiters, _ := lru.New[string, *rate.Limiter](size)
	return &IPRateLimiter{limiters: limiters, rate: rate.Limit(perSecond), burst: burst}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := i.limiters.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(i.rate, i.burst)
	if prev, ok, _ := i.limiters.PeekOrAdd(ip, limiter); ok {
		return prev
	}
	return limiter
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			log.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
