package util

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiters hands out one token bucket per client key (usually the
// remote IP). Buckets idle for longer than ttl are dropped.
type ClientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	stop     chan struct{}
	once     sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewClientLimiters allows r requests per second with bursts of b.
func NewClientLimiters(r float64, b int, ttl time.Duration) *ClientLimiters {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	reg := &ClientLimiters{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(r),
		burst:    b,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go reg.cleanupLoop()
	return reg
}

// Allow consumes one token from key's bucket.
func (r *ClientLimiters) Allow(key string) bool {
	return r.get(key).AllowN(time.Now(), 1)
}

// Len reports how many client buckets are live.
func (r *ClientLimiters) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *ClientLimiters) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *ClientLimiters) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = entry
	}
	entry.lastUsed = time.Now()
	return entry.limiter
}

func (r *ClientLimiters) cleanupLoop() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.cleanup(now)
		}
	}
}

func (r *ClientLimiters) cleanup(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.limiters {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.limiters, key)
		}
	}
}
