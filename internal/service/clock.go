package service

import (
	"sync"
	"time"
)

// clockResolution is how often the clock compares wall time against the
// deadline. Expiry detection can therefore lag the deadline by up to one
// resolution interval.
const clockResolution = time.Second

// SessionClock counts a live session down to an absolute deadline. It owns a
// single goroutine that wakes once per resolution interval, compares the
// current wall-clock time against the deadline, and fires the expiry callback
// exactly once when the deadline has passed. Comparing against an absolute
// instant instead of decrementing a counter keeps the clock correct across
// scheduler stalls and suspended hosts.
type SessionClock struct {
	deadline time.Time

	expireOnce sync.Once
	stopOnce   sync.Once
	stop       chan struct{}
}

// NewSessionClock starts a clock that fires onExpiry once the wall clock
// reaches deadline. onExpiry is invoked at most once, from the clock's own
// goroutine. A deadline already in the past fires on the first tick.
func NewSessionClock(deadline time.Time, onExpiry func()) *SessionClock {
	c := &SessionClock{
		deadline: deadline,
		stop:     make(chan struct{}),
	}

	go c.run(onExpiry)

	return c
}

func (c *SessionClock) run(onExpiry func()) {
	ticker := time.NewTicker(clockResolution)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			if !now.Before(c.deadline) {
				c.expireOnce.Do(onExpiry)
				return
			}
		}
	}
}

// Remaining returns the time left until the deadline, clamped to zero.
func (c *SessionClock) Remaining() time.Duration {
	left := time.Until(c.deadline)
	if left < 0 {
		return 0
	}
	return left
}

// Deadline returns the absolute instant the session expires at.
func (c *SessionClock) Deadline() time.Time {
	return c.deadline
}

// Stop halts the countdown goroutine without firing the expiry callback.
// Stopping an already-stopped or already-expired clock is a no-op.
func (c *SessionClock) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
