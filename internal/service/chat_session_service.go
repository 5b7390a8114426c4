package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/model"
)

// chatSession is the live state of one open-ended interview flow. History
// grows by optimistic append: the candidate's answer is recorded before the
// follow-up question exists, marked pending until it arrives.
type chatSession struct {
	mu sync.Mutex

	record  model.SessionRecord
	phase   SessionPhase
	current string
	pool    []string
	asked   []string
	history []model.ChatTurn
	pending bool
	target  int

	position    string
	description string
	experience  int

	clock *SessionClock
}

// ChatSessionService drives the question/answer interview flow. Questions
// come from the interview's configured list when one exists; otherwise each
// follow-up is generated from the conversation so far. Answered turns are
// queued for asynchronous transcript persistence.
type ChatSessionService struct {
	cfg        *config.Config
	gateway    ExecutionGateway
	interviews InterviewStore
	sessions   SessionStore
	rdb        *redis.Client
	log        zerolog.Logger

	mu      sync.Mutex
	byID    map[uuid.UUID]*chatSession
	byOwner map[sessionKey]uuid.UUID
}

func NewChatSessionService(
	cfg *config.Config,
	gateway ExecutionGateway,
	interviews InterviewStore,
	sessions SessionStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *ChatSessionService {
	return &ChatSessionService{
		cfg:        cfg,
		gateway:    gateway,
		interviews: interviews,
		sessions:   sessions,
		rdb:        rdb,
		log:        log.With().Str("component", "chat_session_service").Logger(),
		byID:       make(map[uuid.UUID]*chatSession),
		byOwner:    make(map[sessionKey]uuid.UUID),
	}
}

// Start creates the candidate's chat session for an interview, or returns
// the existing live one. The first question is ready before the view is
// returned.
func (s *ChatSessionService) Start(ctx context.Context, interviewID uuid.UUID, candidateID int) (*model.ChatSessionView, error) {
	key := sessionKey{interviewID: interviewID, candidateID: candidateID}

	s.mu.Lock()
	if id, ok := s.byOwner[key]; ok {
		sess := s.byID[id]
		s.mu.Unlock()
		return sess.view(), nil
	}
	sess := &chatSession{
		record: model.SessionRecord{
			ID:          uuid.New(),
			InterviewID: interviewID,
			CandidateID: candidateID,
			Kind:        model.SessionKindChat,
		},
		phase: PhaseInitializing,
	}
	s.byID[sess.record.ID] = sess
	s.byOwner[key] = sess.record.ID
	s.mu.Unlock()

	fail := func(err error) (*model.ChatSessionView, error) {
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
	now := time.Now()
	if err := checkWindow(interview, now); err != nil {
		return fail(err)
	}

	pool := make([]string, 0, len(interview.Questions))
	for _, q := range interview.Questions {
		pool = append(pool, q.Question)
	}

	target := len(pool)
	if target == 0 {
		target = s.cfg.MaxChatQuestions
	}

	first := ""
	if len(pool) > 0 {
		first, pool = pool[0], pool[1:]
	} else {
		first = s.generateQuestion(ctx, interview.Position, interview.Description, interview.ExperienceYears, nil)
	}

	// The chat flow runs until the interview window closes.
	deadline := interview.EndTime

	sess.mu.Lock()
	sess.record.StartedAt = now
	sess.record.Deadline = deadline
	sess.mu.Unlock()

	if err := s.sessions.Create(ctx, &sess.record); err != nil {
		return fail(fmt.Errorf("persist session: %w", err))
	}

	sess.mu.Lock()
	sess.current = first
	sess.pool = pool
	sess.target = target
	sess.position = interview.Position
	sess.description = interview.Description
	sess.experience = interview.ExperienceYears
	sess.phase = PhaseActive
	sess.clock = NewSessionClock(deadline, func() { s.expire(sess) })
	sess.mu.Unlock()

	s.log.Info().
		Str("session_id", sess.record.ID.String()).
		Str("interview_id", interviewID.String()).
		Int("candidate_id", candidateID).
		Int("target_turns", target).
		Msg("chat session started")

	return sess.view(), nil
}

// State returns a snapshot of the session.
func (s *ChatSessionService) State(sessionID uuid.UUID) (*model.ChatSessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// SubmitAnswer records the candidate's answer to the current question and
// produces the follow-up. The turn is appended immediately and marked
// pending; only one answer may be in flight at a time. If the deadline fires
// while the follow-up is being generated, the appended turn stands and the
// late follow-up is discarded.
func (s *ChatSessionService) SubmitAnswer(ctx context.Context, sessionID uuid.UUID, answer string) (*model.SubmitAnswerResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.phase != PhaseActive {
		sess.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	if sess.pending {
		sess.mu.Unlock()
		return nil, ErrTurnPending
	}
	sess.pending = true
	question := sess.current
	sess.history = append(sess.history, model.ChatTurn{
		Question: question,
		Answer:   answer,
		Pending:  true,
	})
	sess.asked = append(sess.asked, question)
	turnNo := len(sess.history)
	answered := turnNo
	done := answered >= sess.target
	var next string
	hasPooled := len(sess.pool) > 0
	if hasPooled {
		next, sess.pool = sess.pool[0], sess.pool[1:]
	}
	asked := make([]string, len(sess.asked))
	copy(asked, sess.asked)
	position, description, experience := sess.position, sess.description, sess.experience
	sess.mu.Unlock()

	s.enqueueTranscript(ctx, sess.record.ID, turnNo, question, answer)

	if !done && !hasPooled {
		next = s.generateQuestion(ctx, position, description, experience, asked)
	}

	sess.mu.Lock()
	if sess.phase != PhaseActive {
		// Deadline fired while the follow-up was in flight. The answered
		// turn stays; the late question must not become current.
		if n := len(sess.history); n > 0 {
			sess.history[n-1].Pending = false
		}
		sess.pending = false
		sess.mu.Unlock()
		return &model.SubmitAnswerResponse{Completed: true}, nil
	}
	sess.history[turnNo-1].Pending = false
	sess.pending = false
	if done {
		sess.mu.Unlock()
		s.complete(sess)
		return &model.SubmitAnswerResponse{Completed: true}, nil
	}
	sess.current = next
	sess.mu.Unlock()

	return &model.SubmitAnswerResponse{Completed: false, CurrentQuestion: next}, nil
}

// Shutdown stops every live clock.
func (s *ChatSessionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.byID {
		if sess.clock != nil {
			sess.clock.Stop()
		}
	}
}

func (s *ChatSessionService) get(sessionID uuid.UUID) (*chatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// generateQuestion asks the gateway for the next question, degrading to a
// deterministic prompt when generation fails.
func (s *ChatSessionService) generateQuestion(ctx context.Context, position, description string, experience int, asked []string) string {
	question, err := s.gateway.GenerateChatQuestion(ctx, position, description, experience, asked)
	if err != nil {
		s.log.Warn().Err(err).Msg("chat question generation failed, using fallback")
		return fmt.Sprintf("Tell us about a challenging problem you solved that is relevant to the %s role.", position)
	}
	return question
}

func (s *ChatSessionService) expire(sess *chatSession) {
	if s.complete(sess) {
		s.log.Info().
			Str("session_id", sess.record.ID.String()).
			Msg("chat session expired at deadline")
	}
}

func (s *ChatSessionService) complete(sess *chatSession) bool {
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
	if sess.clock != nil {
		sess.clock.Stop()
	}
	sess.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.sessions.MarkCompleted(ctx, sess.record.ID, nil, now); err != nil {
		s.log.Error().
			Err(err).
			Str("session_id", sess.record.ID.String()).
			Msg("failed to persist session completion")
	}
	return true
}

// transcriptPayload is the queue entry consumed by the transcript worker.
type transcriptPayload struct {
	SessionID string `json:"session_id"`
	TurnNo    int    `json:"turn_no"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

func (s *ChatSessionService) enqueueTranscript(ctx context.Context, sessionID uuid.UUID, turnNo int, question, answer string) {
	payload, err := json.Marshal(transcriptPayload{
		SessionID: sessionID.String(),
		TurnNo:    turnNo,
		Question:  question,
		Answer:    answer,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal transcript payload")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistTranscriptsQueue, payload).Err(); err != nil {
		s.log.Error().
			Err(err).
			Str("session_id", sessionID.String()).
			Msg("failed to enqueue transcript, turn kept in memory only")
	}
}

func (sess *chatSession) view() *model.ChatSessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := &model.ChatSessionView{
		SessionID: sess.record.ID,
		Phase:     string(sess.phase),
		History:   append([]model.ChatTurn(nil), sess.history...),
		Completed: sess.phase == PhaseCompleted,
	}
	if !sess.phase.Terminal() {
		view.CurrentQuestion = sess.current
		if sess.clock != nil {
			view.RemainingSeconds = int(sess.clock.Remaining() / time.Second)
		}
	}
	return view
}
