package service

import (
	"sort"
	"sync"

	"github.com/hireloop/interview-backend/internal/model"
)

// maxQuestionScore is the score awarded when every test case passes.
const maxQuestionScore = 10

// SubmissionLedger keeps the graded submissions of one session, at most one
// per question. Resubmitting a question replaces the previous entry, so the
// aggregate always reflects the latest attempt for each question.
type SubmissionLedger struct {
	mu   sync.Mutex
	subs map[int]model.Submission
}

func NewSubmissionLedger() *SubmissionLedger {
	return &SubmissionLedger{subs: make(map[int]model.Submission)}
}

// ScoreSubmission builds a graded submission from per-test results. A fully
// passing submission earns the maximum score; otherwise the score is the
// passing fraction of the maximum, rounded down.
func ScoreSubmission(questionIndex, topicID int, code, language string, results []model.TestResult) model.Submission {
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	total := len(results)
	score := 0
	switch {
	case total == 0:
		// no test cases means nothing was verified
	case passed == total:
		score = maxQuestionScore
	default:
		score = maxQuestionScore * passed / total
	}

	return model.Submission{
		QuestionIndex: questionIndex,
		TopicID:       topicID,
		Code:          code,
		Language:      language,
		TestResults:   results,
		PassedCount:   passed,
		TotalCount:    total,
		Score:         score,
		AllPassed:     total > 0 && passed == total,
	}
}

// Record stores sub, replacing any earlier submission for the same question.
func (l *SubmissionLedger) Record(sub model.Submission) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.subs[sub.QuestionIndex] = sub
}

// Get returns the recorded submission for a question, if any.
func (l *SubmissionLedger) Get(questionIndex int) (model.Submission, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sub, ok := l.subs[questionIndex]
	return sub, ok
}

// Aggregate sums the scores of all recorded submissions.
func (l *SubmissionLedger) Aggregate() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, sub := range l.subs {
		total += sub.Score
	}
	return total
}

// Snapshot returns the recorded submissions ordered by question index.
func (l *SubmissionLedger) Snapshot() []model.Submission {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Submission, 0, len(l.subs))
	for _, sub := range l.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out
}
