package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind distinguishes the two assessment flows.
type SessionKind string

const (
	SessionKindChat SessionKind = "CHAT"
	SessionKindDSA  SessionKind = "DSA"
)

// SessionRecord is the persisted summary row of a session. Live session
// state (questions, counters, ledger) is in-memory only and dies with the
// interview window; this row is what survives for reporting.
type SessionRecord struct {
	ID          uuid.UUID   `json:"id"`
	InterviewID uuid.UUID   `json:"interview_id"`
	CandidateID int         `json:"candidate_id"`
	Kind        SessionKind `json:"kind"`
	StartedAt   time.Time   `json:"started_at"`
	Deadline    time.Time   `json:"deadline"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	TotalScore  *int        `json:"total_score,omitempty"`
}

// DSASessionView is the snapshot exposed to the presentation layer.
type DSASessionView struct {
	SessionID        uuid.UUID    `json:"session_id"`
	Phase            string       `json:"phase"`
	Questions        []Question   `json:"questions"`
	CurrentIndex     int          `json:"current_question_index"`
	RunsLeft         []int        `json:"runs_left"`
	Submissions      []Submission `json:"submissions"`
	AggregateScore   int          `json:"aggregate_score"`
	MaxScore         int          `json:"max_score"`
	RemainingSeconds int          `json:"time_remaining_seconds"`
}

// ChatSessionView is the snapshot of the open-ended flow.
type ChatSessionView struct {
	SessionID        uuid.UUID  `json:"session_id"`
	Phase            string     `json:"phase"`
	CurrentQuestion  string     `json:"current_question,omitempty"`
	History          []ChatTurn `json:"history"`
	Completed        bool       `json:"completed"`
	RemainingSeconds int        `json:"time_remaining_seconds"`
}
