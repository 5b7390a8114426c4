package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireloop/interview-backend/internal/model"
)

func results(passed, failed int) []model.TestResult {
	out := make([]model.TestResult, 0, passed+failed)
	for i := 0; i < passed; i++ {
		out = append(out, model.TestResult{Passed: true, Message: "Correct"})
	}
	for i := 0; i < failed; i++ {
		out = append(out, model.TestResult{Passed: false, Message: "Wrong answer"})
	}
	return out
}

func TestScoreSubmission(t *testing.T) {
	cases := []struct {
		name      string
		passed    int
		failed    int
		score     int
		allPassed bool
	}{
		{name: "all pass", passed: 3, failed: 0, score: 10, allPassed: true},
		{name: "half pass rounds down", passed: 1, failed: 1, score: 5},
		{name: "one of three", passed: 1, failed: 2, score: 3},
		{name: "two of three", passed: 2, failed: 1, score: 6},
		{name: "none pass", passed: 0, failed: 4, score: 0},
		{name: "no test cases", passed: 0, failed: 0, score: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := ScoreSubmission(0, 1, "code", "Python", results(tc.passed, tc.failed))
			assert.Equal(t, tc.score, sub.Score)
			assert.Equal(t, tc.allPassed, sub.AllPassed)
			assert.Equal(t, tc.passed, sub.PassedCount)
			assert.Equal(t, tc.passed+tc.failed, sub.TotalCount)
		})
	}
}

func TestLedgerResubmissionReplaces(t *testing.T) {
	ledger := NewSubmissionLedger()

	ledger.Record(ScoreSubmission(0, 1, "v1", "Python", results(1, 1)))
	ledger.Record(ScoreSubmission(1, 2, "other", "Python", results(2, 0)))
	assert.Equal(t, 15, ledger.Aggregate())

	// A second submission for question 0 replaces the first.
	ledger.Record(ScoreSubmission(0, 1, "v2", "Python", results(2, 0)))
	assert.Equal(t, 20, ledger.Aggregate())

	snap := ledger.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "v2", snap[0].Code)
	assert.Equal(t, 0, snap[0].QuestionIndex)
	assert.Equal(t, 1, snap[1].QuestionIndex)
}

func TestLedgerAggregateBounds(t *testing.T) {
	ledger := NewSubmissionLedger()
	assert.Equal(t, 0, ledger.Aggregate())

	for i := 0; i < 3; i++ {
		ledger.Record(ScoreSubmission(i, i+1, "code", "Java", results(3, 0)))
	}
	assert.Equal(t, 3*maxQuestionScore, ledger.Aggregate())
}

func TestLedgerGet(t *testing.T) {
	ledger := NewSubmissionLedger()

	_, ok := ledger.Get(0)
	assert.False(t, ok)

	ledger.Record(ScoreSubmission(0, 1, "code", "C++", results(1, 0)))
	sub, ok := ledger.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 10, sub.Score)
}
