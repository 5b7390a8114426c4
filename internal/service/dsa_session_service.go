package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

// dsaSession is the live in-memory state of one timed coding session. All
// mutation happens under mu; gateway calls are made outside the lock and
// their effects re-checked against the phase before being applied, so a
// deadline that fires mid-call always wins.
type dsaSession struct {
	mu sync.Mutex

	record    model.SessionRecord
	phase     SessionPhase
	questions []model.Question
	current   int

	limiter *RunLimiter
	ledger  *SubmissionLedger
	clock   *SessionClock
}

type sessionKey struct {
	interviewID uuid.UUID
	candidateID int
}

// DSASessionService owns the registry of live DSA sessions and drives each
// one through its lifecycle. Completed scores are pushed onto a Redis queue
// and persisted asynchronously by the score worker.
type DSASessionService struct {
	cfg        *config.Config
	gateway    ExecutionGateway
	sequencer  *QuestionSequencer
	interviews InterviewStore
	sessions   SessionStore
	rdb        *redis.Client
	log        zerolog.Logger

	mu      sync.Mutex
	byID    map[uuid.UUID]*dsaSession
	byOwner map[sessionKey]uuid.UUID
}

func NewDSASessionService(
	cfg *config.Config,
	gateway ExecutionGateway,
	interviews InterviewStore,
	sessions SessionStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *DSASessionService {
	return &DSASessionService{
		cfg:        cfg,
		gateway:    gateway,
		sequencer:  NewQuestionSequencer(gateway, cfg.MaxDSAQuestions, log),
		interviews: interviews,
		sessions:   sessions,
		rdb:        rdb,
		log:        log.With().Str("component", "dsa_session_service").Logger(),
		byID:       make(map[uuid.UUID]*dsaSession),
		byOwner:    make(map[sessionKey]uuid.UUID),
	}
}

// Start creates the candidate's DSA session for an interview, or returns the
// existing live one.
func (s *DSASessionService) Start(ctx context.Context, interviewID uuid.UUID, candidateID int) (*model.DSASessionView, error) {
	key := sessionKey{interviewID: interviewID, candidateID: candidateID}

	// Reserve the owner slot before the slow generation work so a second
	// Start for the same pair attaches to this session instead of racing
	// a duplicate into existence.
	s.mu.Lock()
	if id, ok := s.byOwner[key]; ok {
		sess := s.byID[id]
		s.mu.Unlock()
		return sess.view(), nil
	}
	sess := &dsaSession{
		record: model.SessionRecord{
			ID:          uuid.New(),
			InterviewID: interviewID,
			CandidateID: candidateID,
			Kind:        model.SessionKindDSA,
		},
		phase: PhaseInitializing,
	}
	s.byID[sess.record.ID] = sess
	s.byOwner[key] = sess.record.ID
	s.mu.Unlock()

	fail := func(err error) (*model.DSASessionView, error) {
		s.mu.Lock()
		delete(s.byID, sess.record.ID)
		delete(s.byOwner, key)
		s.mu.Unlock()
		return nil, err
	}

	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return fail(fmt.Errorf("load interview: %w", err))
	}
	if err := checkWindow(interview, time.Now()); err != nil {
		return fail(err)
	}

	// Questions are generated before the clock starts, so generation
	// latency never eats into the candidate's time.
	questions, err := s.sequencer.Build(ctx, interview.Topics)
	if err != nil {
		return fail(err)
	}

	now := time.Now()
	deadline := now.Add(s.cfg.DSADuration)
	if interview.EndTime.Before(deadline) {
		deadline = interview.EndTime
	}

	sess.mu.Lock()
	sess.record.StartedAt = now
	sess.record.Deadline = deadline
	sess.mu.Unlock()

	if err := s.sessions.Create(ctx, &sess.record); err != nil {
		return fail(fmt.Errorf("persist session: %w", err))
	}

	sess.mu.Lock()
	sess.questions = questions
	sess.limiter = NewRunLimiter(len(questions), s.cfg.RunsPerQuestion)
	sess.ledger = NewSubmissionLedger()
	sess.phase = PhaseActive
	sess.clock = NewSessionClock(deadline, func() { s.expire(sess) })
	sess.mu.Unlock()

	s.log.Info().
		Str("session_id", sess.record.ID.String()).
		Str("interview_id", interviewID.String()).
		Int("candidate_id", candidateID).
		Int("questions", len(questions)).
		Time("deadline", deadline).
		Msg("dsa session started")

	return sess.view(), nil
}

// State returns a snapshot of the session.
func (s *DSASessionService) State(sessionID uuid.UUID) (*model.DSASessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// Topics returns the session's ordered topic list, one entry per question.
func (s *DSASessionService) Topics(sessionID uuid.UUID) ([]model.DSATopic, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	topics := make([]model.DSATopic, 0, len(sess.questions))
	for _, q := range sess.questions {
		topics = append(topics, model.DSATopic{
			ID:         q.TopicID,
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
		})
	}
	return topics, nil
}

// SelectQuestion switches the session's current question. Selection is free
// to move in any direction and never touches recorded submissions.
func (s *DSASessionService) SelectQuestion(sessionID uuid.UUID, index int) (*model.DSASessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.phase != PhaseActive {
		return nil, ErrSessionCompleted
	}
	if index < 0 || index >= len(sess.questions) {
		return nil, ErrQuestionIndex
	}

	sess.current = index
	return sess.viewLocked(), nil
}

// RunSample executes the candidate's code against the question's sample
// input. The run allowance is consumed before dispatch, so an execution
// failure still costs a run; the result is advisory and never graded.
func (s *DSASessionService) RunSample(ctx context.Context, sessionID uuid.UUID, req *model.RunCodeRequest) (*model.RunResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.phase != PhaseActive {
		sess.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	if req.Index < 0 || req.Index >= len(sess.questions) {
		sess.mu.Unlock()
		return nil, ErrQuestionIndex
	}
	question := sess.questions[req.Index]
	runsLeft, err := sess.limiter.Consume(req.Index)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.mu.Unlock()

	output, runErr := s.gateway.RunCode(ctx, req.Code, req.Language, question.SampleInput)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.phase != PhaseActive {
		return nil, ErrSessionCompleted
	}

	result := &model.RunResult{
		Expected: question.SampleOutput,
		RunsLeft: runsLeft,
	}
	if runErr != nil {
		result.Failed = true
		result.Message = "Failed to execute code"
		return result, nil
	}

	result.Output = output
	result.Matches = strings.TrimSpace(output) == strings.TrimSpace(question.SampleOutput)
	return result, nil
}

// SubmitSolution grades the candidate's code against every test case of one
// question and records the result, replacing any earlier submission for that
// question. The graded score is also queued for asynchronous persistence.
func (s *DSASessionService) SubmitSolution(ctx context.Context, sessionID uuid.UUID, req *model.SubmitSolutionRequest) (*model.Submission, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.phase != PhaseActive {
		sess.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	if req.Index < 0 || req.Index >= len(sess.questions) {
		sess.mu.Unlock()
		return nil, ErrQuestionIndex
	}
	question := sess.questions[req.Index]
	sess.mu.Unlock()

	results := make([]model.TestResult, 0, len(question.TestCases))
	for _, tc := range question.TestCases {
		results = append(results, s.gateway.GradeCode(ctx, req.Code, req.Language, tc))
	}

	sub := ScoreSubmission(req.Index, question.TopicID, req.Code, req.Language, results)

	sess.mu.Lock()
	if sess.phase != PhaseActive {
		sess.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	sess.ledger.Record(sub)
	sess.mu.Unlock()

	s.enqueueScore(ctx, sess.record.ID, question, sub)

	return &sub, nil
}

// FinalSubmit ends the session early at the candidate's request and returns
// the final snapshot.
func (s *DSASessionService) FinalSubmit(ctx context.Context, sessionID uuid.UUID) (*model.DSASessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	if !s.complete(sess) {
		return nil, ErrSessionCompleted
	}
	return sess.view(), nil
}

// Shutdown stops every live clock. Session state is in-memory and is not
// recovered after a restart.
func (s *DSASessionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.byID {
		if sess.clock != nil {
			sess.clock.Stop()
		}
	}
}

func (s *DSASessionService) get(sessionID uuid.UUID) (*dsaSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// expire is the clock's one-shot callback. It runs on the clock goroutine.
func (s *DSASessionService) expire(sess *dsaSession) {
	if s.complete(sess) {
		s.log.Info().
			Str("session_id", sess.record.ID.String()).
			Msg("dsa session expired at deadline")
	}
}

// complete moves the session to its terminal phase and persists the final
// score. It returns false if the session was already terminal. Persistence
// failures are logged, never surfaced: the in-memory result stands and the
// score queue already holds the per-question rows.
func (s *DSASessionService) complete(sess *dsaSession) bool {
	sess.mu.Lock()
	if sess.phase.Terminal() {
		sess.mu.Unlock()
		return false
	}
	next, err := transition(sess.phase, eventComplete)
	if err != nil {
		sess.mu.Unlock()
		return false
	}
	sess.phase = next
	now := time.Now()
	sess.record.CompletedAt = &now
	total := 0
	if sess.ledger != nil {
		total = sess.ledger.Aggregate()
	}
	sess.record.TotalScore = &total
	if sess.clock != nil {
		sess.clock.Stop()
	}
	sess.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.sessions.MarkCompleted(ctx, sess.record.ID, &total, now); err != nil {
		s.log.Error().
			Err(err).
			Str("session_id", sess.record.ID.String()).
			Msg("failed to persist session completion")
	}
	return true
}

// scorePayload is the queue entry consumed by the score worker.
type scorePayload struct {
	SessionID string `json:"session_id"`
	TopicID   int    `json:"topic_id"`
	Question  string `json:"question"`
	Code      string `json:"code"`
	Score     int    `json:"score"`
}

func (s *DSASessionService) enqueueScore(ctx context.Context, sessionID uuid.UUID, question model.Question, sub model.Submission) {
	questionJSON, err := json.Marshal(map[string]string{
		"title":       question.Title,
		"description": question.Description,
		"topic":       question.Topic,
		"difficulty":  question.Difficulty,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal question for score queue")
		return
	}

	payload, err := json.Marshal(scorePayload{
		SessionID: sessionID.String(),
		TopicID:   sub.TopicID,
		Question:  string(questionJSON),
		Code:      sub.Code,
		Score:     sub.Score,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal score payload")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, payload).Err(); err != nil {
		s.log.Error().
			Err(err).
			Str("session_id", sessionID.String()).
			Msg("failed to enqueue score, result kept in memory only")
	}
}

// checkWindow validates that now falls inside the interview's open window.
func checkWindow(interview *model.Interview, now time.Time) error {
	if now.Before(interview.StartTime) {
		return ErrInterviewNotOpen
	}
	if now.After(interview.EndTime) {
		return ErrInterviewEnded
	}
	return nil
}

func (sess *dsaSession) view() *model.DSASessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked()
}

// viewLocked builds a snapshot. Caller holds sess.mu. A session still in
// the initializing phase has no questions, limiter, or clock yet.
func (sess *dsaSession) viewLocked() *model.DSASessionView {
	view := &model.DSASessionView{
		SessionID:    sess.record.ID,
		Phase:        string(sess.phase),
		Questions:    sess.questions,
		CurrentIndex: sess.current,
		MaxScore:     maxQuestionScore * len(sess.questions),
	}
	if sess.limiter != nil {
		view.RunsLeft = sess.limiter.Snapshot()
	}
	if sess.ledger != nil {
		view.Submissions = sess.ledger.Snapshot()
		view.AggregateScore = sess.ledger.Aggregate()
	}
	if sess.clock != nil && !sess.phase.Terminal() {
		view.RemainingSeconds = int(sess.clock.Remaining() / time.Second)
	}
	return view
}
