package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLimiterConsumeCountsDown(t *testing.T) {
	limiter := NewRunLimiter(2, 3)

	for want := 2; want >= 0; want-- {
		left, err := limiter.Consume(0)
		require.NoError(t, err)
		assert.Equal(t, want, left)
	}

	_, err := limiter.Consume(0)
	assert.ErrorIs(t, err, ErrRunsExhausted)
	assert.Equal(t, 0, limiter.Remaining(0))

	// The other question's allowance is untouched.
	assert.Equal(t, 3, limiter.Remaining(1))
}

func TestRunLimiterIndexOutOfRange(t *testing.T) {
	limiter := NewRunLimiter(1, 3)

	_, err := limiter.Consume(1)
	assert.Error(t, err)
	_, err = limiter.Consume(-1)
	assert.Error(t, err)
	assert.Equal(t, 0, limiter.Remaining(5))
}

func TestRunLimiterSnapshotIsCopy(t *testing.T) {
	limiter := NewRunLimiter(2, 3)

	snap := limiter.Snapshot()
	assert.Equal(t, []int{3, 3}, snap)

	snap[0] = 99
	assert.Equal(t, 3, limiter.Remaining(0))
}
