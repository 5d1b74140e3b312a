package middleware

import (
	"net/http"
	"sync"
	"time"

	"migapos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventanaIP tracks request counts per IP within a sliding window.
type ventanaIP struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limiter is a per-IP sliding-window counter. Each instance owns its map, so
// the login limiter and the general API limiter never share state.
type limiter struct {
	limit   int
	window  time.Duration
	detail  string
	entries map[string]*ventanaIP
	mu      sync.Mutex
}

func newLimiter(limit int, window time.Duration, detail string) *limiter {
	l := &limiter{
		limit:   limit,
		window:  window,
		detail:  detail,
		entries: make(map[string]*ventanaIP),
	}
	go l.purge()
	return l
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		entry, ok := l.entries[ip]
		if !ok {
			entry = &ventanaIP{}
			l.entries[ip] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}

		entry.count++
		if entry.count > l.limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.detail))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purge removes expired entries so IPs that never return don't accumulate.
func (l *limiter) purge() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter entries purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter returns a general-purpose sliding-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
