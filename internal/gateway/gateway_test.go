package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

// fakeClient returns canned responses in order, recording every prompt.
type fakeClient struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no canned response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestGateway(client CompletionClient) *Gateway {
	return New(client, zerolog.Nop())
}

func TestGenerateQuestion_Success(t *testing.T) {
	client := &fakeClient{responses: []string{`Here you go:
{"title":"Rotate Array","description":"Rotate an array k steps.","testCases":[
{"input":"1 2 3, k=1","output":"3 1 2","description":"basic"},
{"input":"","output":"","description":"empty"}],
"sampleInput":"1 2 3, k=1","sampleOutput":"3 1 2","difficulty":"Medium","hints":["use reversal"]}`}}

	g := newTestGateway(client)
	q, err := g.GenerateQuestion(context.Background(), "arrays", "Medium")
	require.NoError(t, err)
	assert.Equal(t, "Rotate Array", q.Title)
	assert.Len(t, q.TestCases, 2)
	assert.Contains(t, client.prompts[0], "topic: arrays")
	assert.Contains(t, client.prompts[0], "difficulty: Medium")
}

func TestGenerateQuestion_MalformedResponse(t *testing.T) {
	g := newTestGateway(&fakeClient{responses: []string{"I'd rather chat about the weather."}})

	_, err := g.GenerateQuestion(context.Background(), "graphs", "Hard")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerateQuestion_CallFailure(t *testing.T) {
	g := newTestGateway(&fakeClient{err: errors.New("network down")})

	_, err := g.GenerateQuestion(context.Background(), "graphs", "Hard")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestRunCode_TrimsOutput(t *testing.T) {
	g := newTestGateway(&fakeClient{responses: []string{"\n  42  \n"}})

	out, err := g.RunCode(context.Background(), "print(42)", "Python", "")
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestRunCode_Failure(t *testing.T) {
	g := newTestGateway(&fakeClient{err: errors.New("boom")})

	_, err := g.RunCode(context.Background(), "print(42)", "Python", "")
	assert.ErrorIs(t, err, ErrExecution)
}

func TestGradeCode_PassAndFail(t *testing.T) {
	tc := model.TestCase{Input: "1", Output: "1", Description: "identity"}

	g := newTestGateway(&fakeClient{responses: []string{"PASS"}})
	res := g.GradeCode(context.Background(), "x", "Python", tc)
	assert.True(t, res.Passed)
	assert.Equal(t, "identity", res.Description)

	g = newTestGateway(&fakeClient{responses: []string{"FAIL: wrong answer"}})
	res = g.GradeCode(context.Background(), "x", "Python", tc)
	assert.False(t, res.Passed)
	assert.Equal(t, "FAIL: wrong answer", res.Message)
}

func TestGradeCode_CallFailureCountsAsFailed(t *testing.T) {
	g := newTestGateway(&fakeClient{err: errors.New("timeout")})

	res := g.GradeCode(context.Background(), "x", "Python", model.TestCase{Description: "edge"})
	assert.False(t, res.Passed)
	assert.Equal(t, gradeFailureMessage, res.Message)
}

func TestGenerateChatQuestion(t *testing.T) {
	g := newTestGateway(&fakeClient{responses: []string{`{"question": "What is a goroutine?"}`}})

	q, err := g.GenerateChatQuestion(context.Background(), "Backend Developer", "Go services", 3, []string{"What is a channel?"})
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", q)
}

func TestChatClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	cfg := config.Load()
	cfg.LLMBaseURL = srv.URL
	cfg.LLMAPIKey = "test-key"

	client := NewChatClient(cfg)
	out, err := client.Complete(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestChatClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := config.Load()
	cfg.LLMBaseURL = srv.URL

	client := NewChatClient(cfg)
	_, err := client.Complete(context.Background(), "hi")
	assert.Error(t, err)
}
