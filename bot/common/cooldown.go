package common

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown allows each key (a user or guild ID) a burst of uses per period
type Cooldown struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func NewCooldown(uses int, per time.Duration) *Cooldown {
	if uses <= 0 {
		uses = 1
	}
	return &Cooldown{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(per / time.Duration(uses)),
		burst:    uses,
	}
}

// Allow consumes a use for key. When none is left it returns how long to wait.
func (c *Cooldown) Allow(key string, now time.Time) (bool, time.Duration) {
	c.mu.Lock()
	limiter, ok := c.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(c.every, c.burst)
		c.limiters[key] = limiter
	}
	c.mu.Unlock()

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}
