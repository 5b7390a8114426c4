package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/model"
	"github.com/hireloop/interview-backend/internal/repository"
)

// Interview management errors.
var (
	ErrInterviewNotFound  = errors.New("interview not found")
	ErrNotInterviewAuthor = errors.New("interview belongs to another recruiter")
	ErrAllocationInvalid  = errors.New("dsa and dev percentages must sum to 100")
)

// InterviewService handles recruiter interview management.
type InterviewService struct {
	interviews *repository.InterviewRepository
	log        zerolog.Logger
}

func NewInterviewService(interviews *repository.InterviewRepository, log zerolog.Logger) *InterviewService {
	return &InterviewService{
		interviews: interviews,
		log:        log.With().Str("component", "interview_service").Logger(),
	}
}

// Create validates and stores a new interview definition.
func (s *InterviewService) Create(ctx context.Context, authorID int, req *model.CreateInterviewRequest) (*model.Interview, error) {
	if req.DSAPercent+req.DevPercent != 100 {
		return nil, ErrAllocationInvalid
	}

	iv := &model.Interview{
		AuthorID:           authorID,
		Description:        req.Description,
		Position:           req.Position,
		ExperienceYears:    req.ExperienceYears,
		SubmissionDeadline: req.SubmissionDeadline,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		DurationMinutes:    req.DurationMinutes,
		DSAPercent:         req.DSAPercent,
		DevPercent:         req.DevPercent,
		AskResumeQuestions: req.AskResumeQuestions,
	}
	for _, q := range req.Questions {
		iv.Questions = append(iv.Questions, model.DevQuestion{Question: q.Question, Answer: q.Answer})
	}
	for _, t := range req.Topics {
		iv.Topics = append(iv.Topics, model.DSATopic{Topic: t.Topic, Difficulty: t.Difficulty})
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("interview_id", iv.ID.String()).
		Int("author_id", authorID).
		Int("questions", len(iv.Questions)).
		Int("topics", len(iv.Topics)).
		Msg("interview created")

	return iv, nil
}

// Update applies the provided fields to an existing interview. Only the
// interview's author may edit it.
func (s *InterviewService) Update(ctx context.Context, authorID int, id uuid.UUID, req *model.UpdateInterviewRequest) (*model.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	if iv.AuthorID != authorID {
		return nil, ErrNotInterviewAuthor
	}

	if req.Description != nil {
		iv.Description = *req.Description
	}
	if req.Position != nil {
		iv.Position = *req.Position
	}
	if req.ExperienceYears != nil {
		iv.ExperienceYears = *req.ExperienceYears
	}
	if req.SubmissionDeadline != nil {
		iv.SubmissionDeadline = *req.SubmissionDeadline
	}
	if req.StartTime != nil {
		iv.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		iv.EndTime = *req.EndTime
	}
	if req.DurationMinutes != nil {
		iv.DurationMinutes = *req.DurationMinutes
	}
	if req.DSAPercent != nil {
		iv.DSAPercent = *req.DSAPercent
	}
	if req.DevPercent != nil {
		iv.DevPercent = *req.DevPercent
	}
	if req.AskResumeQuestions != nil {
		iv.AskResumeQuestions = *req.AskResumeQuestions
	}
	if req.Questions != nil {
		iv.Questions = nil
		for _, q := range req.Questions {
			iv.Questions = append(iv.Questions, model.DevQuestion{Question: q.Question, Answer: q.Answer})
		}
	}
	if req.Topics != nil {
		iv.Topics = nil
		for _, t := range req.Topics {
			iv.Topics = append(iv.Topics, model.DSATopic{Topic: t.Topic, Difficulty: t.Difficulty})
		}
	}

	if iv.DSAPercent+iv.DevPercent != 100 {
		return nil, ErrAllocationInvalid
	}

	if err := s.interviews.Update(ctx, iv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}

	return iv, nil
}

// Delete removes an interview. Only its author may delete it.
func (s *InterviewService) Delete(ctx context.Context, authorID int, id uuid.UUID) error {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInterviewNotFound
		}
		return err
	}
	if iv.AuthorID != authorID {
		return ErrNotInterviewAuthor
	}

	return s.interviews.Delete(ctx, id)
}

// GetByID retrieves an interview with its questions and topics.
func (s *InterviewService) GetByID(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return iv, nil
}

// ListByAuthor retrieves a recruiter's interviews.
func (s *InterviewService) ListByAuthor(ctx context.Context, authorID int) ([]model.Interview, error) {
	return s.interviews.ListByAuthor(ctx, authorID)
}

// ListOpen retrieves interviews currently inside their open window.
func (s *InterviewService) ListOpen(ctx context.Context) ([]model.Interview, error) {
	return s.interviews.ListOpen(ctx)
}
