package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/config"
)

// TranscriptWorker consumes the transcript queue and UPSERTs chat turns to
// PostgreSQL. Each answered turn is queued the moment it is appended to the
// live session, so the transcript survives even if the session itself never
// completes cleanly.
type TranscriptWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewTranscriptWorker creates a new TranscriptWorker.
func NewTranscriptWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *TranscriptWorker {
	return &TranscriptWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "transcript_worker").Logger(),
	}
}

type transcriptPayload struct {
	SessionID string `json:"session_id"`
	TurnNo    int    `json:"turn_no"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *TranscriptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("TranscriptWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *TranscriptWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistTranscriptsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload transcriptPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistTurn(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Str("session_id", payload.SessionID).
			Int("turn_no", payload.TurnNo).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistTranscriptsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *TranscriptWorker) persistTurn(ctx context.Context, p *transcriptPayload) error {
	sessionID, err := uuid.Parse(p.SessionID)
	if err != nil {
		return err
	}

	// UPSERT keeps a redelivered payload from duplicating a turn.
	_, err = w.pool.Exec(ctx,
		`INSERT INTO chat_turns (session_id, turn_no, question, answer)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, turn_no) DO UPDATE
		 SET question = EXCLUDED.question, answer = EXCLUDED.answer`,
		sessionID, p.TurnNo, p.Question, p.Answer,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *TranscriptWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistTranscriptsQueue).Result()
		if err != nil {
			break
		}

		var payload transcriptPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistTurn(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistTranscriptsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
