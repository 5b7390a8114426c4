package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/interview-backend/internal/model"
)

// InterviewRepository handles interview data access. Interviews own their
// dev questions and DSA topics; writes keep all three tables consistent
// inside one transaction.
type InterviewRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewRepository creates a new InterviewRepository.
func NewInterviewRepository(pool *pgxpool.Pool) *InterviewRepository {
	return &InterviewRepository{pool: pool}
}

const interviewColumns = `id, author_id, description, position, experience_years,
       submission_deadline, start_time, end_time, duration_minutes,
       dsa_percent, dev_percent, ask_resume_questions, created_at, updated_at`

func scanInterview(row pgx.Row) (*model.Interview, error) {
	iv := &model.Interview{}
	err := row.Scan(&iv.ID, &iv.AuthorID, &iv.Description, &iv.Position, &iv.ExperienceYears,
		&iv.SubmissionDeadline, &iv.StartTime, &iv.EndTime, &iv.DurationMinutes,
		&iv.DSAPercent, &iv.DevPercent, &iv.AskResumeQuestions, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// Create inserts an interview together with its questions and topics.
func (r *InterviewRepository) Create(ctx context.Context, iv *model.Interview) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO interviews (author_id, description, position, experience_years,
		        submission_deadline, start_time, end_time, duration_minutes,
		        dsa_percent, dev_percent, ask_resume_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		iv.AuthorID, iv.Description, iv.Position, iv.ExperienceYears,
		iv.SubmissionDeadline, iv.StartTime, iv.EndTime, iv.DurationMinutes,
		iv.DSAPercent, iv.DevPercent, iv.AskResumeQuestions,
	).Scan(&iv.ID, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertChildren(ctx, tx, iv); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update rewrites an interview's base row and replaces its questions and
// topics with the given sets.
func (r *InterviewRepository) Update(ctx context.Context, iv *model.Interview) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE interviews
		 SET description = $1, position = $2, experience_years = $3,
		     submission_deadline = $4, start_time = $5, end_time = $6,
		     duration_minutes = $7, dsa_percent = $8, dev_percent = $9,
		     ask_resume_questions = $10, updated_at = NOW()
		 WHERE id = $11`,
		iv.Description, iv.Position, iv.ExperienceYears,
		iv.SubmissionDeadline, iv.StartTime, iv.EndTime,
		iv.DurationMinutes, iv.DSAPercent, iv.DevPercent,
		iv.AskResumeQuestions, iv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM interview_questions WHERE interview_id = $1`, iv.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM dsa_topics WHERE interview_id = $1`, iv.ID); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, iv); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertChildren(ctx context.Context, tx pgx.Tx, iv *model.Interview) error {
	for i := range iv.Questions {
		q := &iv.Questions[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO interview_questions (interview_id, position, question, answer)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			iv.ID, i, q.Question, q.Answer,
		).Scan(&q.ID); err != nil {
			return err
		}
	}
	for i := range iv.Topics {
		t := &iv.Topics[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO dsa_topics (interview_id, position, topic, difficulty)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			iv.ID, i, t.Topic, t.Difficulty,
		).Scan(&t.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves an interview with its questions and topics.
func (r *InterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	iv, err := scanInterview(r.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question, answer FROM interview_questions
		 WHERE interview_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var q model.DevQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer); err != nil {
			return nil, err
		}
		iv.Questions = append(iv.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, topic, difficulty FROM dsa_topics
		 WHERE interview_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.DSATopic
		if err := rows.Scan(&t.ID, &t.Topic, &t.Difficulty); err != nil {
			return nil, err
		}
		iv.Topics = append(iv.Topics, t)
	}
	return iv, rows.Err()
}

// ListByAuthor retrieves the interviews created by one recruiter, newest
// first. Questions and topics are not loaded for list views.
func (r *InterviewRepository) ListByAuthor(ctx context.Context, authorID int) ([]model.Interview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

// ListOpen retrieves interviews whose window includes the current time.
// This is the candidate-facing listing.
func (r *InterviewRepository) ListOpen(ctx context.Context) ([]model.Interview, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE start_time <= NOW() AND end_time >= NOW()
		 ORDER BY end_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

func collectInterviews(rows pgx.Rows) ([]model.Interview, error) {
	var out []model.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

// Delete removes an interview and, via cascade, its questions and topics.
func (r *InterviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
