package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/interview-backend/internal/model"
)

// ExecutionGateway is the boundary to the text-generation backend that
// produces questions, simulates code runs, and grades submissions. The
// production implementation lives in the gateway package.
type ExecutionGateway interface {
	GenerateQuestion(ctx context.Context, topic, difficulty string) (*model.GeneratedQuestion, error)
	RunCode(ctx context.Context, code, language, sampleInput string) (string, error)
	GradeCode(ctx context.Context, code, language string, testCase model.TestCase) model.TestResult
	GenerateChatQuestion(ctx context.Context, position, description string, experience int, asked []string) (string, error)
}

// InterviewStore loads interview definitions for session startup checks.
type InterviewStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Interview, error)
}

// SessionStore persists session summaries. Creation happens at startup;
// completion carries the final aggregate score for DSA sessions.
type SessionStore interface {
	Create(ctx context.Context, rec *model.SessionRecord) error
	MarkCompleted(ctx context.Context, id uuid.UUID, totalScore *int, at time.Time) error
}
