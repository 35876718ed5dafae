package middleware

import (
	"net/http"
	"sync"
	"time"

	"forrapos/internal/apierror"

	"github.com/gin-gonic/gin"
)

// windowCounter tracks request counts per IP within a fixed window.
type windowCounter struct {
	count     int
	windowEnd time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	perIP   map[string]*windowCounter
	limit   int
	window  time.Duration
	message string
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, ok := rl.perIP[ip]
	if !ok || now.After(entry.windowEnd) {
		rl.perIP[ip] = &windowCounter{count: 1, windowEnd: now.Add(rl.window)}
		return true
	}
	entry.count++
	return entry.count <= rl.limit
}

func (rl *rateLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP, slowing
// down password guessing.
func LoginRateLimiter() gin.HandlerFunc {
	rl := &rateLimiter{
		perIP:   make(map[string]*windowCounter),
		limit:   20,
		window:  time.Minute,
		message: "Demasiados intentos de login. Intente en 1 minuto.",
	}
	return rl.handler()
}

// RateLimiter is the general API limiter, applied to every /v1 route.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		perIP:   make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
		message: "Demasiadas solicitudes. Intente más tarde.",
	}
	return rl.handler()
}
