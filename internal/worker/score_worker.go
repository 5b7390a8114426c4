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

const (
	ScoreBatchSize    = 50
	ScoreBatchTimeout = 2 * time.Second
	ScorePollTimeout  = 1 * time.Second
)

// ScoreWorker drains the score queue and upserts per-question DSA scores.
// Persistence is asynchronous on purpose: a submission's result is already
// final in the live session when its payload lands here, so a slow or
// unavailable database never blocks the candidate.
type ScoreWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewScoreWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ScoreWorker {
	return &ScoreWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "score_worker").Logger(),
	}
}

type scorePayload struct {
	SessionID string `json:"session_id"`
	TopicID   int    `json:"topic_id"`
	Question  string `json:"question"`
	Code      string `json:"code"`
	Score     int    `json:"score"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ScoreWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ScoreWorker started")

	batch := make([]*scorePayload, 0, ScoreBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ScoreBatchSize || time.Since(lastFlush) >= ScoreBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ScorePollTimeout, config.WorkerKey.PersistScoresQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p scorePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch Upsert Wrapper
// ----------------------------------------------------------------

func (w *ScoreWorker) flushSafe(ctx context.Context, batch []*scorePayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpsertScores(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk score upsert failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL UPSERT using UNNEST
// ----------------------------------------------------------------

func (w *ScoreWorker) bulkUpsertScores(ctx context.Context, batch []*scorePayload) error {
	batch = dedupeLatest(batch)
	n := len(batch)

	sessionIDs := make([]uuid.UUID, 0, n)
	topicIDs := make([]int, 0, n)
	questions := make([]string, 0, n)
	codes := make([]string, 0, n)
	scores := make([]int, 0, n)

	for _, p := range batch {
		sID, err := uuid.Parse(p.SessionID)
		if err != nil {
			return err
		}
		sessionIDs = append(sessionIDs, sID)
		topicIDs = append(topicIDs, p.TopicID)
		questions = append(questions, p.Question)
		codes = append(codes, p.Code)
		scores = append(scores, p.Score)
	}

	// A resubmission for the same question overwrites the earlier row, so
	// the persisted score always matches the latest attempt.
	query := `
		INSERT INTO dsa_scores (session_id, topic_id, question, code, score)
		SELECT u.session_id, u.topic_id, u.question, u.code, u.score
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::text[],
			$4::text[],
			$5::int[]
		) AS u (session_id, topic_id, question, code, score)
		ON CONFLICT (session_id, topic_id)
		DO UPDATE SET question = EXCLUDED.question,
		              code = EXCLUDED.code,
		              score = EXCLUDED.score,
		              created_at = NOW()
	`

	_, err := w.pool.Exec(ctx, query, sessionIDs, topicIDs, questions, codes, scores)
	return err
}

// dedupeLatest keeps only the last payload per (session, topic) pair.
// ON CONFLICT cannot update the same row twice within one statement.
func dedupeLatest(batch []*scorePayload) []*scorePayload {
	type key struct {
		sessionID string
		topicID   int
	}

	latest := make(map[key]int, len(batch))
	out := make([]*scorePayload, 0, len(batch))
	for _, p := range batch {
		k := key{sessionID: p.SessionID, topicID: p.TopicID}
		if i, ok := latest[k]; ok {
			out[i] = p
			continue
		}
		latest[k] = len(out)
		out = append(out, p)
	}
	return out
}

// ----------------------------------------------------------------
// FALLBACK single upsert
// ----------------------------------------------------------------

func (w *ScoreWorker) persistSingle(ctx context.Context, p *scorePayload) error {
	sID, err := uuid.Parse(p.SessionID)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx,
		`INSERT INTO dsa_scores (session_id, topic_id, question, code, score)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, topic_id)
		 DO UPDATE SET question = EXCLUDED.question,
		               code = EXCLUDED.code,
		               score = EXCLUDED.score,
		               created_at = NOW()`,
		sID, p.TopicID, p.Question, p.Code, p.Score,
	)

	return err
}
