package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-identity sliding-window request counter. A single mutex
// guards the whole map so concurrent Admit calls for the same identity cannot
// race past the window cap. State is in-memory only and resets on restart.
type Limiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Admit reports whether the identity may make another request right now.
// Timestamps older than the window are discarded first; a rejected call is
// not recorded.
func (l *Limiter) Admit(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.requests[identity][:0]
	for _, t := range l.requests[identity] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.maxRequests {
		l.requests[identity] = kept
		return false
	}

	l.requests[identity] = append(kept, now)
	return true
}
