package model

import (
	"time"

	"github.com/google/uuid"
)

// Interview is a recruiter-authored assessment definition. Candidates run
// timed sessions (chat and DSA) against it inside the start/end window.
type Interview struct {
	ID                 uuid.UUID  `json:"id"`
	AuthorID           int        `json:"author_id"`
	Description        string     `json:"desc"`
	Position           string     `json:"post"`
	ExperienceYears    int        `json:"experience"`
	SubmissionDeadline time.Time  `json:"submission_deadline"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int        `json:"duration"`
	DSAPercent         int        `json:"dsa_percent"`
	DevPercent         int        `json:"dev_percent"`
	AskResumeQuestions bool       `json:"ask_questions_on_resume"`
	Questions          []DevQuestion `json:"questions,omitempty"`
	Topics             []DSATopic    `json:"dsa_topics,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// DevQuestion is one configured open-ended question with its expected answer.
type DevQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DSATopic is a backend-assigned DSA category with difficulty. It is the
// seed a session turns into a concrete coding question.
type DSATopic struct {
	ID         int    `json:"id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// CreateInterviewRequest is the payload for creating a new interview.
type CreateInterviewRequest struct {
	Description        string              `json:"desc" binding:"required,min=3"`
	Position           string              `json:"post" binding:"required,min=2,max=255"`
	ExperienceYears    int                 `json:"experience" binding:"min=0,max=40"`
	SubmissionDeadline time.Time           `json:"submission_deadline" binding:"required"`
	StartTime          time.Time           `json:"start_time" binding:"required"`
	EndTime            time.Time           `json:"end_time" binding:"required,gtfield=StartTime"`
	DurationMinutes    int                 `json:"duration" binding:"required,min=1,max=300"`
	DSAPercent         int                 `json:"dsa_percent" binding:"min=0,max=100"`
	DevPercent         int                 `json:"dev_percent" binding:"min=0,max=100"`
	AskResumeQuestions bool                `json:"ask_questions_on_resume"`
	Questions          []DevQuestionInput  `json:"questions" binding:"omitempty,dive"`
	Topics             []DSATopicInput     `json:"dsa_topics" binding:"omitempty,dive"`
}

// DevQuestionInput is one question/answer pair in a create/update payload.
type DevQuestionInput struct {
	Question string `json:"question" binding:"required,min=3"`
	Answer   string `json:"answer" binding:"required,min=1"`
}

// DSATopicInput is one DSA topic row in a create/update payload.
type DSATopicInput struct {
	Topic      string `json:"topic" binding:"required,min=2,max=100"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}

// UpdateInterviewRequest is the payload for editing an existing interview.
// All fields optional; absent fields keep their stored values.
type UpdateInterviewRequest struct {
	Description        *string            `json:"desc" binding:"omitempty,min=3"`
	Position           *string            `json:"post" binding:"omitempty,min=2,max=255"`
	ExperienceYears    *int               `json:"experience" binding:"omitempty,min=0,max=40"`
	SubmissionDeadline *time.Time         `json:"submission_deadline"`
	StartTime          *time.Time         `json:"start_time"`
	EndTime            *time.Time         `json:"end_time"`
	DurationMinutes    *int               `json:"duration" binding:"omitempty,min=1,max=300"`
	DSAPercent         *int               `json:"dsa_percent" binding:"omitempty,min=0,max=100"`
	DevPercent         *int               `json:"dev_percent" binding:"omitempty,min=0,max=100"`
	AskResumeQuestions *bool              `json:"ask_questions_on_resume"`
	Questions          []DevQuestionInput `json:"questions" binding:"omitempty,dive"`
	Topics             []DSATopicInput    `json:"dsa_topics" binding:"omitempty,dive"`
}
