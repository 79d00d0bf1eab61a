package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/deusflow/neutralnews/internal/logger"
)

// ErrLimitExceeded is returned by Use once the daily budget is spent.
var ErrLimitExceeded = errors.New("summary rate limit exceeded")

// SummaryLimiter caps model requests per day and tracks summary cache use.
type SummaryLimiter struct {
	mu          sync.Mutex
	count       int
	max         int
	resetTime   time.Time
	cacheHits   int
	cacheMisses int
	now         func() time.Time
}

// NewSummaryLimiter creates a limiter allowing max requests per day; max <= 0 disables the cap.
func NewSummaryLimiter(max int) *SummaryLimiter {
	return &SummaryLimiter{
		max:       max,
		resetTime: time.Now().Add(24 * time.Hour), // Reset daily
		now:       time.Now,
	}
}

// Use consumes one request from the budget
func (rl *SummaryLimiter) Use() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.max > 0 && rl.count >= rl.max {
		logger.Warn("summary rate limit reached", "used", rl.count, "limit", rl.max)
		return ErrLimitExceeded
	}

	rl.count++
	rl.cacheMisses++

	logger.Debug("summary usage", "used", rl.count, "limit", rl.max)
	return nil
}

// RecordCacheHit records a summary served from cache
func (rl *SummaryLimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

// GetStats returns current limiter statistics
func (rl *SummaryLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"used":           rl.count,
		"limit":          rl.max,
		"cache_hits":     rl.cacheHits,
		"cache_misses":   rl.cacheMisses,
		"cache_hit_rate": rl.hitRate(),
		"reset_time":     rl.resetTime,
	}
}

func (rl *SummaryLimiter) hitRate() float64 {
	total := rl.cacheHits + rl.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(rl.cacheHits) / float64(total) * 100
}

// checkReset resets counters if reset time has passed
func (rl *SummaryLimiter) checkReset() {
	now := rl.now()
	if now.After(rl.resetTime) {
		logger.Info("resetting summary rate limiter",
			"used", rl.count, "cache_hits", rl.cacheHits, "cache_misses", rl.cacheMisses)

		rl.count = 0
		rl.cacheHits = 0
		rl.cacheMisses = 0
		rl.resetTime = now.Add(24 * time.Hour)
	}
}
