package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

func newDSAService(t *testing.T, gw *fakeGateway, interview *model.Interview, cfg *config.Config) (*DSASessionService, *fakeSessionStore) {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}
	store := &fakeSessionStore{}
	svc := NewDSASessionService(cfg, gw, &fakeInterviewStore{interview: interview}, store, testRedis(t), testLogger())
	t.Cleanup(svc.Shutdown)
	return svc, store
}

func TestDSAStart(t *testing.T) {
	gw := &fakeGateway{}
	svc, store := newDSAService(t, gw, openInterview(2), nil)

	interviewID := uuid.New()
	view, err := svc.Start(context.Background(), interviewID, 42)
	require.NoError(t, err)

	assert.Equal(t, string(PhaseActive), view.Phase)
	assert.Len(t, view.Questions, 2)
	assert.Equal(t, []int{3, 3}, view.RunsLeft)
	assert.Equal(t, 0, view.AggregateScore)
	assert.Equal(t, 20, view.MaxScore)
	assert.Empty(t, view.Submissions)
	assert.Greater(t, view.RemainingSeconds, 0)

	require.Len(t, store.created, 1)
	assert.Equal(t, model.SessionKindDSA, store.created[0].Kind)
	assert.Equal(t, 42, store.created[0].CandidateID)

	// Starting again for the same candidate+interview attaches to the
	// existing session instead of creating a second one.
	again, err := svc.Start(context.Background(), interviewID, 42)
	require.NoError(t, err)
	assert.Equal(t, view.SessionID, again.SessionID)
	assert.Len(t, store.created, 1)
}

func TestDSAStartWindowChecks(t *testing.T) {
	notOpen := openInterview(1)
	notOpen.StartTime = time.Now().Add(time.Hour)
	notOpen.EndTime = time.Now().Add(2 * time.Hour)
	svc, _ := newDSAService(t, &fakeGateway{}, notOpen, nil)
	_, err := svc.Start(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrInterviewNotOpen)

	ended := openInterview(1)
	ended.StartTime = time.Now().Add(-2 * time.Hour)
	ended.EndTime = time.Now().Add(-time.Hour)
	svc, _ = newDSAService(t, &fakeGateway{}, ended, nil)
	_, err = svc.Start(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrInterviewEnded)
}

func TestDSAStartNoTopicsIsRetryable(t *testing.T) {
	svc, store := newDSAService(t, &fakeGateway{}, openInterview(0), nil)

	interviewID := uuid.New()
	_, err := svc.Start(context.Background(), interviewID, 1)
	assert.ErrorIs(t, err, ErrNoTopics)
	assert.Empty(t, store.created, "a failed start must not persist a session")

	// The owner slot is released, so a retry is not blocked.
	_, err = svc.Start(context.Background(), interviewID, 1)
	assert.ErrorIs(t, err, ErrNoTopics)
}

func TestDSARunSample(t *testing.T) {
	gw := &fakeGateway{runOutput: "1\n"}
	svc, _ := newDSAService(t, gw, openInterview(1), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	req := &model.RunCodeRequest{Index: 0, Code: "print(1)", Language: "Python"}
	result, err := svc.RunSample(context.Background(), view.SessionID, req)
	require.NoError(t, err)

	assert.False(t, result.Failed)
	assert.True(t, result.Matches, "trimmed output should match the sample output")
	assert.Equal(t, "1\n", result.Output)
	assert.Equal(t, 2, result.RunsLeft)
}

func TestDSARunAllowanceExhausted(t *testing.T) {
	gw := &fakeGateway{runOutput: "x"}
	svc, _ := newDSAService(t, gw, openInterview(1), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	req := &model.RunCodeRequest{Index: 0, Code: "code", Language: "Python"}
	for want := 2; want >= 0; want-- {
		result, err := svc.RunSample(context.Background(), view.SessionID, req)
		require.NoError(t, err)
		assert.Equal(t, want, result.RunsLeft)
	}

	_, err = svc.RunSample(context.Background(), view.SessionID, req)
	assert.ErrorIs(t, err, ErrRunsExhausted)
	assert.Equal(t, 3, gw.runCalls, "a denied run must not reach the gateway")
}

func TestDSARunFailureStillCostsARun(t *testing.T) {
	gw := &fakeGateway{runErr: assert.AnError}
	svc, _ := newDSAService(t, gw, openInterview(1), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	req := &model.RunCodeRequest{Index: 0, Code: "code", Language: "Java"}
	result, err := svc.RunSample(context.Background(), view.SessionID, req)
	require.NoError(t, err)

	assert.True(t, result.Failed)
	assert.Equal(t, "Failed to execute code", result.Message)
	assert.Equal(t, 2, result.RunsLeft)
}

func TestDSASubmitAndResubmit(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newDSAService(t, gw, openInterview(2), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	// The fake generates two test cases per question, all passing.
	sub, err := svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{
		Index: 0, Code: "good", Language: "Python",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, sub.Score)
	assert.True(t, sub.AllPassed)

	// Resubmitting with failing code replaces the entry instead of adding
	// a second one.
	gw.mu.Lock()
	gw.gradePass = func(tc model.TestCase) bool { return tc.Description == "first" }
	gw.mu.Unlock()

	sub, err = svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{
		Index: 0, Code: "half", Language: "Python",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, sub.Score, "one of two passing scores half, rounded down")
	assert.False(t, sub.AllPassed)

	state, err := svc.State(view.SessionID)
	require.NoError(t, err)
	require.Len(t, state.Submissions, 1)
	assert.Equal(t, "half", state.Submissions[0].Code)
	assert.Equal(t, 5, state.AggregateScore)
}

func TestDSASubmitEnqueuesScore(t *testing.T) {
	gw := &fakeGateway{}
	cfg := testConfig()
	store := &fakeSessionStore{}
	rdb := testRedis(t)
	svc := NewDSASessionService(cfg, gw, &fakeInterviewStore{interview: openInterview(1)}, store, rdb, testLogger())
	t.Cleanup(svc.Shutdown)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	_, err = svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{
		Index: 0, Code: "good", Language: "C++",
	})
	require.NoError(t, err)

	items, err := rdb.LRange(context.Background(), config.WorkerKey.PersistScoresQueue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, items, 1)

	var payload scorePayload
	require.NoError(t, json.Unmarshal([]byte(items[0]), &payload))
	assert.Equal(t, view.SessionID.String(), payload.SessionID)
	assert.Equal(t, 1, payload.TopicID)
	assert.Equal(t, 10, payload.Score)
	assert.Equal(t, "good", payload.Code)
	assert.Contains(t, payload.Question, "Generated arrays")
}

func TestDSAFinalSubmit(t *testing.T) {
	gw := &fakeGateway{}
	svc, store := newDSAService(t, gw, openInterview(1), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	_, err = svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{
		Index: 0, Code: "good", Language: "Python",
	})
	require.NoError(t, err)

	final, err := svc.FinalSubmit(context.Background(), view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, string(PhaseCompleted), final.Phase)
	assert.Equal(t, 10, final.AggregateScore)
	assert.Equal(t, 0, final.RemainingSeconds)

	score, ok := store.completedScore(view.SessionID)
	require.True(t, ok)
	require.NotNil(t, score)
	assert.Equal(t, 10, *score)

	// Everything after completion is rejected.
	_, err = svc.FinalSubmit(context.Background(), view.SessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = svc.RunSample(context.Background(), view.SessionID, &model.RunCodeRequest{Index: 0, Code: "c", Language: "Python"})
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{Index: 0, Code: "c", Language: "Python"})
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = svc.SelectQuestion(view.SessionID, 0)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestDSADeadlineForcesCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.DSADuration = 1200 * time.Millisecond

	svc, store := newDSAService(t, &fakeGateway{}, openInterview(1), cfg)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		state, err := svc.State(view.SessionID)
		return err == nil && state.Phase == string(PhaseCompleted)
	}, 4*time.Second, 100*time.Millisecond, "deadline must force completion within one clock tick")

	_, ok := store.completedScore(view.SessionID)
	assert.True(t, ok, "expiry persists the completion")

	_, err = svc.SubmitSolution(context.Background(), view.SessionID, &model.SubmitSolutionRequest{
		Index: 0, Code: "late", Language: "Python",
	})
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestDSASelectQuestion(t *testing.T) {
	svc, _ := newDSAService(t, &fakeGateway{}, openInterview(2), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex)

	view, err = svc.SelectQuestion(view.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentIndex)

	// Moving backwards is allowed and touches nothing else.
	view, err = svc.SelectQuestion(view.SessionID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex)

	_, err = svc.SelectQuestion(view.SessionID, 5)
	assert.ErrorIs(t, err, ErrQuestionIndex)
}

func TestDSAUnknownSession(t *testing.T) {
	svc, _ := newDSAService(t, &fakeGateway{}, openInterview(1), nil)

	_, err := svc.State(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDSATopics(t *testing.T) {
	iv := openInterview(0)
	iv.Topics = []model.DSATopic{
		{ID: 7, Topic: "arrays", Difficulty: "Easy"},
		{ID: 9, Topic: "graphs", Difficulty: "Hard"},
	}
	svc, _ := newDSAService(t, &fakeGateway{}, iv, nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	topics, err := svc.Topics(view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, iv.Topics, topics, "topic list must preserve interview order")

	_, err = svc.Topics(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
