package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"viajei/internal/logging"
	"viajei/internal/metrics"
	mem "viajei/pkg/memcache"
	"viajei/pkg/utils"
)

type LockoutResponse struct {
	Message          string    `json:"message"`
	RemainingMinutes int       `json:"remainingMinutes"`
	BlockedUntil     time.Time `json:"blockedUntil"`
}

// Lockout blocks client addresses after repeated authentication failures. Store errors fail open.
type Lockout struct {
	store mem.LockoutStore
	now   func() time.Time
}

func NewLockout(store mem.LockoutStore) *Lockout {
	return &Lockout{store: store, now: time.Now}
}

// Guard rejects requests from a blocked address with 429.
func (l *Lockout) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		until, err := l.store.Check(c.Request.Context(), c.ClientIP())
		if err != nil {
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("lockout check failed")
			c.Next()
			return
		}
		if until.IsZero() {
			c.Next()
			return
		}

		metrics.LockoutBlocked.Inc()
		remaining := mem.RemainingMinutes(until, l.now())
		utils.RespondErrorWithData(c, http.StatusTooManyRequests,
			"Too many failed attempts. Try again later.",
			LockoutResponse{
				Message:          "Too many failed attempts. Try again later.",
				RemainingMinutes: remaining,
				BlockedUntil:     until,
			})
		c.Abort()
	}
}

// Fail records a failed attempt for the caller's address.
func (l *Lockout) Fail(c *gin.Context) {
	metrics.LockoutFailedAttempts.Inc()
	entry, err := l.store.RecordFailure(c.Request.Context(), c.ClientIP())
	if err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to record lockout attempt")
		return
	}
	if entry.BlockedAt(l.now()) {
		logging.Ctx(c.Request.Context()).Warn().
			Str("client_ip", c.ClientIP()).
			Int("attempts", entry.Count).
			Time("blocked_until", entry.BlockedUntil).
			Msg("client address locked out")
	}
}

// Succeed forgets previous failures of the caller's address.
func (l *Lockout) Succeed(c *gin.Context) {
	if err := l.store.Clear(c.Request.Context(), c.ClientIP()); err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to clear lockout attempts")
	}
}

func (l *Lockout) Blocked(c *gin.Context) ([]mem.BlockedEntry, error) {
	return l.store.Blocked(c.Request.Context())
}
