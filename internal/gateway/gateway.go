package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/model"
)

// Typed failure classes. Callers recover from ErrGeneration locally
// (fallback question) and surface ErrExecution as a failed run; neither
// is ever fatal to a session.
var (
	ErrGeneration = errors.New("question generation failed")
	ErrExecution  = errors.New("code execution failed")
)

const gradeFailureMessage = "Test execution failed"

// Gateway adapts the external text-generation service into three typed
// operations: generate a question, run code against sample input, grade
// code against a test case. The service is a black box returning
// unstructured text; every operation parses defensively.
type Gateway struct {
	client CompletionClient
	log    zerolog.Logger
}

// New creates a Gateway around a completion client.
func New(client CompletionClient, log zerolog.Logger) *Gateway {
	return &Gateway{
		client: client,
		log:    log.With().Str("component", "gateway").Logger(),
	}
}

// GenerateQuestion asks the provider for a structured DSA problem.
// Malformed or unreachable responses return ErrGeneration; the caller
// decides the fallback.
func (g *Gateway) GenerateQuestion(ctx context.Context, topic, difficulty string) (*model.GeneratedQuestion, error) {
	raw, err := g.client.Complete(ctx, generateQuestionPrompt(topic, difficulty))
	if err != nil {
		g.log.Warn().Err(err).Str("topic", topic).Msg("Question generation call failed")
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	q, err := parseGeneratedQuestion(raw)
	if err != nil {
		g.log.Warn().Err(err).Str("topic", topic).Msg("Question generation response unparseable")
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return q, nil
}

// RunCode executes candidate code against the sample input and returns
// the trimmed raw output. Advisory only — the output is whatever the
// provider claims the program printed.
func (g *Gateway) RunCode(ctx context.Context, code, language, sampleInput string) (string, error) {
	raw, err := g.client.Complete(ctx, runCodePrompt(code, language, sampleInput))
	if err != nil {
		g.log.Warn().Err(err).Msg("Run call failed")
		return "", fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return strings.TrimSpace(raw), nil
}

// GradeCode grades candidate code against a single test case. It never
// returns an error: a failed or unparseable call counts the test case as
// failed, not as an abort of the whole submission.
func (g *Gateway) GradeCode(ctx context.Context, code, language string, tc model.TestCase) model.TestResult {
	raw, err := g.client.Complete(ctx, gradeCodePrompt(code, language, tc))
	if err != nil {
		g.log.Warn().Err(err).Msg("Grade call failed")
		return model.TestResult{
			Passed:      false,
			Message:     gradeFailureMessage,
			Description: tc.Description,
		}
	}

	passed, msg := parseVerdict(raw)
	return model.TestResult{
		Passed:      passed,
		Message:     msg,
		Description: tc.Description,
	}
}

// GenerateChatQuestion produces one open-ended interview question for the
// given position, avoiding repeats of already-asked questions.
func (g *Gateway) GenerateChatQuestion(ctx context.Context, position, description string, experience int, asked []string) (string, error) {
	raw, err := g.client.Complete(ctx, chatQuestionsPrompt(position, description, experience, asked))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	obj, err := extractJSONObject(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var parsed struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(parsed.Question) == "" {
		return "", fmt.Errorf("%w: empty question", ErrGeneration)
	}
	return strings.TrimSpace(parsed.Question), nil
}
