package signal

import (
	"sync"
	"time"
)

// HostRequestLimiter bounds how often one key may ask to host,
// with a sliding window per key.
type HostRequestLimiter struct {
	mu        sync.Mutex
	history   map[string][]time.Time
	limit     int
	interval  time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewHostRequestLimiter(limit int, interval time.Duration) *HostRequestLimiter {
	return &HostRequestLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *HostRequestLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)
	rl.sweepLocked(now, windowStart)

	fresh := prune(rl.history[key], windowStart)
	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}

	rl.history[key] = append(fresh, now)
	return true
}

// sweepLocked drops keys with no attempt inside the window, at most once per interval.
func (rl *HostRequestLimiter) sweepLocked(now, windowStart time.Time) {
	if now.Sub(rl.lastSweep) < rl.interval {
		return
	}
	rl.lastSweep = now
	for key, attempts := range rl.history {
		if fresh := prune(attempts, windowStart); len(fresh) == 0 {
			delete(rl.history, key)
		} else {
			rl.history[key] = fresh
		}
	}
}

func prune(attempts []time.Time, windowStart time.Time) []time.Time {
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}
