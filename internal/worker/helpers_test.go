package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDelay(t *testing.T) {
	for range 100 {
		d := randomDelay(2*time.Second, 5*time.Second)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}
	assert.Equal(t, 3*time.Second, randomDelay(3*time.Second, time.Second))
	assert.Zero(t, randomDelay(0, 0))
}

func TestBackoff_DoublesWithJitter(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		d := backoff(base, attempt)
		floor := base << attempt
		assert.GreaterOrEqual(t, d, floor)
		assert.Less(t, d, floor+base)
	}
	assert.Zero(t, backoff(0, 3))
}

func TestSleep_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
