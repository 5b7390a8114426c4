package service

import (
	"fmt"
	"sync"
)

// RunLimiter enforces the per-question sample-run allowance. Each question in
// a session starts with the same number of runs; a run is consumed before the
// code is dispatched for execution, so a failed execution still costs a run.
type RunLimiter struct {
	mu        sync.Mutex
	remaining []int
}

// NewRunLimiter allocates an allowance of perQuestion runs for each of
// questionCount questions.
func NewRunLimiter(questionCount, perQuestion int) *RunLimiter {
	remaining := make([]int, questionCount)
	for i := range remaining {
		remaining[i] = perQuestion
	}

	return &RunLimiter{remaining: remaining}
}

// Consume spends one run for the question at index and returns the runs left
// afterwards. It returns ErrRunsExhausted when the allowance is already zero;
// the count never goes negative.
func (l *RunLimiter) Consume(index int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.remaining) {
		return 0, fmt.Errorf("question index %d out of range", index)
	}
	if l.remaining[index] <= 0 {
		return 0, ErrRunsExhausted
	}

	l.remaining[index]--
	return l.remaining[index], nil
}

// Remaining returns the runs left for the question at index, or zero for an
// out-of-range index.
func (l *RunLimiter) Remaining(index int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.remaining) {
		return 0
	}
	return l.remaining[index]
}

// Snapshot returns a copy of the remaining allowance for every question.
func (l *RunLimiter) Snapshot() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int, len(l.remaining))
	copy(out, l.remaining)
	return out
}
