package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Wait(context.Context) error
	Limit() rate.Limit
}

func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}

// Politeness spaces consecutive requests at least delay apart.
// A non-positive delay disables waiting.
func Politeness(delay time.Duration) RateLimiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(Per(1, delay), 1)
}
