package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

func newChatService(t *testing.T, gw *fakeGateway, interview *model.Interview, cfg *config.Config) (*ChatSessionService, *fakeSessionStore, *redis.Client) {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}
	store := &fakeSessionStore{}
	rdb := testRedis(t)
	svc := NewChatSessionService(cfg, gw, &fakeInterviewStore{interview: interview}, store, rdb, testLogger())
	t.Cleanup(svc.Shutdown)
	return svc, store, rdb
}

func TestChatStartWithConfiguredQuestions(t *testing.T) {
	gw := &fakeGateway{}
	svc, store, _ := newChatService(t, gw, openInterview(0, "Q1", "Q2"), nil)

	interviewID := uuid.New()
	view, err := svc.Start(context.Background(), interviewID, 7)
	require.NoError(t, err)

	assert.Equal(t, string(PhaseActive), view.Phase)
	assert.Equal(t, "Q1", view.CurrentQuestion)
	assert.Empty(t, view.History)
	assert.False(t, view.Completed)
	assert.Equal(t, 0, gw.chatCalls, "configured questions never hit the gateway")

	require.Len(t, store.created, 1)
	assert.Equal(t, model.SessionKindChat, store.created[0].Kind)

	again, err := svc.Start(context.Background(), interviewID, 7)
	require.NoError(t, err)
	assert.Equal(t, view.SessionID, again.SessionID)
	assert.Len(t, store.created, 1)
}

func TestChatConfiguredFlowToCompletion(t *testing.T) {
	gw := &fakeGateway{}
	svc, store, rdb := newChatService(t, gw, openInterview(0, "Q1", "Q2"), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	resp, err := svc.SubmitAnswer(context.Background(), view.SessionID, "answer one")
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Equal(t, "Q2", resp.CurrentQuestion)

	resp, err = svc.SubmitAnswer(context.Background(), view.SessionID, "answer two")
	require.NoError(t, err)
	assert.True(t, resp.Completed)

	state, err := svc.State(view.SessionID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.Empty(t, state.CurrentQuestion)
	require.Len(t, state.History, 2)
	assert.Equal(t, "Q1", state.History[0].Question)
	assert.Equal(t, "answer one", state.History[0].Answer)
	assert.False(t, state.History[0].Pending)
	assert.Equal(t, "Q2", state.History[1].Question)

	score, ok := store.completedScore(view.SessionID)
	require.True(t, ok)
	assert.Nil(t, score, "chat sessions complete without a score")

	items, err := rdb.LRange(context.Background(), config.WorkerKey.PersistTranscriptsQueue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, items, 2)

	var payload transcriptPayload
	require.NoError(t, json.Unmarshal([]byte(items[0]), &payload))
	assert.Equal(t, view.SessionID.String(), payload.SessionID)
	assert.Equal(t, 1, payload.TurnNo)
	assert.Equal(t, "Q1", payload.Question)
	assert.Equal(t, "answer one", payload.Answer)

	_, err = svc.SubmitAnswer(context.Background(), view.SessionID, "too late")
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestChatGeneratedFlow(t *testing.T) {
	gw := &fakeGateway{chatNext: "Tell me about goroutines"}
	svc, _, _ := newChatService(t, gw, openInterview(0), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about goroutines", view.CurrentQuestion)
	assert.Equal(t, 1, gw.chatCalls)

	// MaxChatQuestions is 2 in the test config: one follow-up, then done.
	resp, err := svc.SubmitAnswer(context.Background(), view.SessionID, "they are cheap")
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Equal(t, "Tell me about goroutines", resp.CurrentQuestion)
	assert.Equal(t, 2, gw.chatCalls)

	resp, err = svc.SubmitAnswer(context.Background(), view.SessionID, "channels too")
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, 2, gw.chatCalls, "no follow-up is generated for the final turn")
}

func TestChatGenerationFallback(t *testing.T) {
	gw := &fakeGateway{chatErr: assert.AnError}
	svc, _, _ := newChatService(t, gw, openInterview(0), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Contains(t, view.CurrentQuestion, "Backend Engineer", "fallback question names the role")
}

func TestChatTurnPendingGuard(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{}, 4)
	gw := &fakeGateway{chatNext: "next", chatEntered: entered}
	svc, _, _ := newChatService(t, gw, openInterview(0), nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	<-entered

	// Block follow-up generation from here on so the first answer stays
	// in flight.
	gw.mu.Lock()
	gw.blockChat = block
	gw.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.SubmitAnswer(context.Background(), view.SessionID, "first")
	}()

	<-entered

	// With the first answer in flight, further answers are rejected
	// rather than queued.
	_, err = svc.SubmitAnswer(context.Background(), view.SessionID, "second")
	assert.ErrorIs(t, err, ErrTurnPending)

	close(block)
	<-done

	state, err := svc.State(view.SessionID)
	require.NoError(t, err)
	assert.Len(t, state.History, 1, "rejected answers never enter the history")
}

func TestChatDeadlineDiscardsLateFollowUp(t *testing.T) {
	block := make(chan struct{})
	gw := &fakeGateway{chatNext: "late question"}

	interview := openInterview(0)
	interview.EndTime = time.Now().Add(1200 * time.Millisecond)
	svc, _, _ := newChatService(t, gw, interview, nil)

	view, err := svc.Start(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	firstQuestion := view.CurrentQuestion

	gw.mu.Lock()
	gw.blockChat = block
	gw.mu.Unlock()

	respCh := make(chan *model.SubmitAnswerResponse, 1)
	go func() {
		resp, err := svc.SubmitAnswer(context.Background(), view.SessionID, "my answer")
		if err == nil {
			respCh <- resp
		}
	}()

	// Let the deadline fire while the follow-up generation is blocked,
	// then release the gateway so the late response arrives.
	require.Eventually(t, func() bool {
		state, err := svc.State(view.SessionID)
		return err == nil && state.Completed
	}, 4*time.Second, 100*time.Millisecond)
	close(block)

	resp := <-respCh
	assert.True(t, resp.Completed, "a late follow-up reports completion, not a next question")
	assert.Empty(t, resp.CurrentQuestion)

	state, err := svc.State(view.SessionID)
	require.NoError(t, err)
	require.Len(t, state.History, 1, "the answered turn survives expiry")
	assert.Equal(t, firstQuestion, state.History[0].Question)
	assert.Equal(t, "my answer", state.History[0].Answer)
	assert.False(t, state.History[0].Pending)
	assert.Empty(t, state.CurrentQuestion, "the late question never becomes current")
}

func TestChatUnknownSession(t *testing.T) {
	svc, _, _ := newChatService(t, &fakeGateway{}, openInterview(0), nil)

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), "answer")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
