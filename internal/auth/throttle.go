package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle limits login attempts per client key with token buckets.
type LoginThrottle struct {
	rate   rate.Limit
	burst  int
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*throttleEntry
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle allows burst attempts, refilled at perMinute per minute.
func NewLoginThrottle(perMinute float64, burst int) *LoginThrottle {
	return &LoginThrottle{
		rate:     rate.Limit(perMinute / 60),
		burst:    burst,
		maxAge:   10 * time.Minute,
		now:      time.Now,
		limiters: make(map[string]*throttleEntry),
	}
}

func (t *LoginThrottle) Allow(key string) bool {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.limiters[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.limiters[key] = e
	}
	e.lastSeen = now
	t.prune(now)
	return e.limiter.AllowN(now, 1)
}

// prune drops idle entries. Caller holds mu.
func (t *LoginThrottle) prune(now time.Time) {
	cutoff := now.Add(-t.maxAge)
	for k, e := range t.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(t.limiters, k)
		}
	}
}
