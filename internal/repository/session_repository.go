package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/interview-backend/internal/model"
)

// SessionRepository handles persisted session summaries and the rows the
// workers write under them (per-question scores, chat transcripts).
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a session summary row.
func (r *SessionRepository) Create(ctx context.Context, rec *model.SessionRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, interview_id, candidate_id, kind, started_at, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.InterviewID, rec.CandidateID, rec.Kind, rec.StartedAt, rec.Deadline)
	return err
}

// MarkCompleted stamps a session's completion time and final score.
// totalScore is nil for chat sessions, which complete without one.
func (r *SessionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, totalScore *int, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions SET completed_at = $1, total_score = $2 WHERE id = $3`,
		at, totalScore, id)
	return err
}

// GetByID retrieves a session summary.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SessionRecord, error) {
	rec := &model.SessionRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, interview_id, candidate_id, kind, started_at, deadline, completed_at, total_score
		 FROM interview_sessions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.InterviewID, &rec.CandidateID, &rec.Kind,
		&rec.StartedAt, &rec.Deadline, &rec.CompletedAt, &rec.TotalScore)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// InterviewResult is one candidate's session summary for the recruiter view.
type InterviewResult struct {
	Session       model.SessionRecord `json:"session"`
	CandidateName string              `json:"candidate_name"`
	Email         string              `json:"candidate_email"`
}

// ListResults retrieves all sessions of an interview joined with candidate
// identity, newest first.
func (r *SessionRepository) ListResults(ctx context.Context, interviewID uuid.UUID) ([]InterviewResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.interview_id, s.candidate_id, s.kind, s.started_at,
		        s.deadline, s.completed_at, s.total_score, c.name, c.email
		 FROM interview_sessions s
		 JOIN candidates c ON c.id = s.candidate_id
		 WHERE s.interview_id = $1
		 ORDER BY s.started_at DESC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []InterviewResult
	for rows.Next() {
		var res InterviewResult
		if err := rows.Scan(&res.Session.ID, &res.Session.InterviewID, &res.Session.CandidateID,
			&res.Session.Kind, &res.Session.StartedAt, &res.Session.Deadline,
			&res.Session.CompletedAt, &res.Session.TotalScore,
			&res.CandidateName, &res.Email); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// DSAScoreRow is one persisted per-question score.
type DSAScoreRow struct {
	ID        int       `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	TopicID   int       `json:"topic_id"`
	Question  string    `json:"question"`
	Code      string    `json:"code"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ListScores retrieves the persisted per-question scores of a session.
func (r *SessionRepository) ListScores(ctx context.Context, sessionID uuid.UUID) ([]DSAScoreRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, topic_id, question, code, score, created_at
		 FROM dsa_scores WHERE session_id = $1 ORDER BY topic_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []DSAScoreRow
	for rows.Next() {
		var s DSAScoreRow
		if err := rows.Scan(&s.ID, &s.SessionID, &s.TopicID, &s.Question,
			&s.Code, &s.Score, &s.CreatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// TranscriptRow is one persisted chat turn.
type TranscriptRow struct {
	SessionID uuid.UUID `json:"session_id"`
	TurnNo    int       `json:"turn_no"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// ListTranscript retrieves a session's chat turns in order.
func (r *SessionRepository) ListTranscript(ctx context.Context, sessionID uuid.UUID) ([]TranscriptRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, turn_no, question, answer, created_at
		 FROM chat_turns WHERE session_id = $1 ORDER BY turn_no`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []TranscriptRow
	for rows.Next() {
		var t TranscriptRow
		if err := rows.Scan(&t.SessionID, &t.TurnNo, &t.Question, &t.Answer, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
