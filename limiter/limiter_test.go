package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestPoliteness(t *testing.T) {
	l := Politeness(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Wait(ctx))
	}
	// first token is free, the next two are spaced
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestPolitenessDisabled(t *testing.T) {
	l := Politeness(0)
	assert.Equal(t, rate.Inf, l.Limit())

	start := time.Now()
	for i := 0; i < 100; i++ {
		assert.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPolitenessCanceled(t *testing.T) {
	l := Politeness(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, l.Wait(ctx))
	cancel()
	assert.Error(t, l.Wait(ctx))
}
