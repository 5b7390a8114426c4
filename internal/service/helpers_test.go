package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

// fakeGateway is a scriptable ExecutionGateway recording every call.
type fakeGateway struct {
	mu sync.Mutex

	genErr    error
	runOutput string
	runErr    error
	gradePass func(tc model.TestCase) bool
	chatNext  string
	chatErr   error

	// blockChat, when non-nil, makes GenerateChatQuestion wait until the
	// channel is closed before returning. chatEntered, when non-nil,
	// receives one value as each generation call begins.
	blockChat   chan struct{}
	chatEntered chan struct{}

	generateCalls int
	runCalls      int
	gradeCalls    int
	chatCalls     int
}

func (f *fakeGateway) GenerateQuestion(_ context.Context, topic, difficulty string) (*model.GeneratedQuestion, error) {
	f.mu.Lock()
	f.generateCalls++
	err := f.genErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &model.GeneratedQuestion{
		Title:       "Generated " + topic,
		Description: "A " + difficulty + " question about " + topic,
		TestCases: []model.TestCase{
			{Input: "1", Output: "1", Description: "first"},
			{Input: "2", Output: "2", Description: "second"},
		},
		SampleInput:  "1",
		SampleOutput: "1",
	}, nil
}

func (f *fakeGateway) RunCode(_ context.Context, _, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runCalls++
	return f.runOutput, f.runErr
}

func (f *fakeGateway) GradeCode(_ context.Context, _, _ string, tc model.TestCase) model.TestResult {
	f.mu.Lock()
	pass := f.gradePass
	f.gradeCalls++
	f.mu.Unlock()

	passed := pass == nil || pass(tc)
	msg := "Correct"
	if !passed {
		msg = "Wrong answer"
	}
	return model.TestResult{Passed: passed, Message: msg, Description: tc.Description}
}

func (f *fakeGateway) GenerateChatQuestion(_ context.Context, _, _ string, _ int, _ []string) (string, error) {
	f.mu.Lock()
	block := f.blockChat
	f.chatCalls++
	next, err := f.chatNext, f.chatErr
	f.mu.Unlock()

	if f.chatEntered != nil {
		select {
		case f.chatEntered <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}
	return next, nil
}

type fakeInterviewStore struct {
	interview *model.Interview
	err       error
}

func (f *fakeInterviewStore) GetByID(_ context.Context, _ uuid.UUID) (*model.Interview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.interview, nil
}

type fakeSessionStore struct {
	mu        sync.Mutex
	created   []model.SessionRecord
	completed map[uuid.UUID]*int
	createErr error
}

func (f *fakeSessionStore) Create(_ context.Context, rec *model.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *rec)
	return nil
}

func (f *fakeSessionStore) MarkCompleted(_ context.Context, id uuid.UUID, totalScore *int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed == nil {
		f.completed = make(map[uuid.UUID]*int)
	}
	f.completed[id] = totalScore
	return nil
}

func (f *fakeSessionStore) completedScore(id uuid.UUID) (*int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.completed[id]
	return score, ok
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testConfig() *config.Config {
	return &config.Config{
		DSADuration:      30 * time.Minute,
		RunsPerQuestion:  3,
		MaxDSAQuestions:  3,
		MaxChatQuestions: 2,
	}
}

func openInterview(topics int, questions ...string) *model.Interview {
	iv := &model.Interview{
		ID:              uuid.New(),
		Position:        "Backend Engineer",
		Description:     "Builds services",
		ExperienceYears: 3,
		StartTime:       time.Now().Add(-time.Hour),
		EndTime:         time.Now().Add(time.Hour),
		DurationMinutes: 30,
	}
	for i := 0; i < topics; i++ {
		iv.Topics = append(iv.Topics, model.DSATopic{
			ID:         i + 1,
			Topic:      "arrays",
			Difficulty: "Easy",
		})
	}
	for _, q := range questions {
		iv.Questions = append(iv.Questions, model.DevQuestion{Question: q, Answer: "expected"})
	}
	return iv
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
