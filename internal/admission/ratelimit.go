package admission

import (
	"sync"
	"time"
)

// sweepInterval bounds how often idle client entries are evicted.
const sweepInterval = 5 * time.Minute

type window struct {
	mu      sync.Mutex
	start   time.Time
	count   int
	evicted bool
}

// RateLimiter is a fixed-window counter keyed by client identity. The map is
// guarded by its own lock; each counter carries a per-key mutex so concurrent
// requests from one client serialize their increment-and-check without
// blocking other clients.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*window
	limit     int
	windowLen time.Duration
	lastSweep time.Time
}

func NewRateLimiter(limit int, windowLen time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*window),
		limit:     limit,
		windowLen: windowLen,
	}
}

// Allow records a request for key at time now and reports whether it fits in
// the current window. A rejected request does not increment the counter. The
// window resets once windowLen has elapsed since it started.
func (rl *RateLimiter) Allow(key string, now time.Time) bool {
	for {
		w := rl.client(key, now)

		w.mu.Lock()
		if w.evicted {
			// Lost a race with the sweep: the entry is gone from the map, so
			// counting against this window would leak an extra admission.
			w.mu.Unlock()
			continue
		}
		if now.Sub(w.start) >= rl.windowLen {
			w.start = now
			w.count = 0
		}
		allowed := w.count < rl.limit
		if allowed {
			w.count++
		}
		w.mu.Unlock()
		return allowed
	}
}

func (rl *RateLimiter) client(key string, now time.Time) *window {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweepLocked(now)
		rl.lastSweep = now
	}

	w, ok := rl.clients[key]
	if !ok {
		w = &window{start: now}
		rl.clients[key] = w
	}
	return w
}

// sweepLocked evicts clients whose window has long elapsed. Callers hold
// rl.mu. Evicted windows are marked under their own lock so an Allow holding
// a stale pointer retries against the map instead of incrementing a dead
// counter.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, w := range rl.clients {
		w.mu.Lock()
		if now.Sub(w.start) >= rl.windowLen {
			w.evicted = true
			delete(rl.clients, key)
		}
		w.mu.Unlock()
	}
}

// Len reports the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
