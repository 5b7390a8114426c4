package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionClockFiresOnceAfterDeadline(t *testing.T) {
	var fired atomic.Int32

	clock := NewSessionClock(time.Now().Add(500*time.Millisecond), func() {
		fired.Add(1)
	})
	defer clock.Stop()

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, 3*time.Second, 50*time.Millisecond, "expiry callback should fire within one tick of the deadline")

	// The callback never fires a second time.
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestSessionClockStopPreventsExpiry(t *testing.T) {
	var fired atomic.Int32

	clock := NewSessionClock(time.Now().Add(500*time.Millisecond), func() {
		fired.Add(1)
	})
	clock.Stop()
	clock.Stop() // idempotent

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSessionClockRemainingClampedToZero(t *testing.T) {
	clock := NewSessionClock(time.Now().Add(-time.Minute), func() {})
	defer clock.Stop()

	assert.Equal(t, time.Duration(0), clock.Remaining())
}

func TestSessionClockRemainingCountsDown(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	clock := NewSessionClock(deadline, func() {})
	defer clock.Stop()

	left := clock.Remaining()
	assert.Greater(t, left, 59*time.Minute)
	assert.LessOrEqual(t, left, time.Hour)
	assert.Equal(t, deadline, clock.Deadline())
}
