package httpclient

import (
	"sync"
	"time"
)

// Limiter admits requests against a rolling per-minute quota. It is a hard
// ceiling rather than a smoothing algorithm: bursts up to the quota are
// admitted instantaneously, and once the quota is hit callers are rejected
// immediately instead of being queued.
//
// Each backend gets its own Limiter instance; the owner composes it into
// whichever clients share that backend's quota.
type Limiter struct {
	quota  int
	window time.Duration

	mu       sync.Mutex
	admitted []time.Time
	now      func() time.Time
}

// NewLimiter constructs a limiter allowing requestsPerMinute admissions per
// rolling 60-second window.
func NewLimiter(requestsPerMinute int) *Limiter {
	return &Limiter{
		quota:  requestsPerMinute,
		window: time.Minute,
		now:    time.Now,
	}
}

// Acquire purges admissions older than the window and admits the caller if
// the quota has headroom, recording the admission timestamp. It returns
// ErrRateLimited otherwise. Purge and append run under one lock so that
// concurrent callers always observe a consistent quota.
func (l *Limiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.admitted[:0]
	for _, ts := range l.admitted {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.admitted = kept

	if len(l.admitted) >= l.quota {
		return ErrRateLimited
	}

	l.admitted = append(l.admitted, now)
	return nil
}
