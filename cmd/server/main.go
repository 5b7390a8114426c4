package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/database"
	"github.com/hireloop/interview-backend/internal/gateway"
	"github.com/hireloop/interview-backend/internal/handler"
	"github.com/hireloop/interview-backend/internal/logger"
	"github.com/hireloop/interview-backend/internal/repository"
	"github.com/hireloop/interview-backend/internal/router"
	"github.com/hireloop/interview-backend/internal/service"
	"github.com/hireloop/interview-backend/internal/validator"
	"github.com/hireloop/interview-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Interview Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	candidateRepo := repository.NewCandidateRepository(pool)
	recruiterRepo := repository.NewRecruiterRepository(pool)
	interviewRepo := repository.NewInterviewRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	// ─── Initialize Gateway ────────────────────────────────────────────
	llmClient := gateway.NewChatClient(cfg)
	gw := gateway.New(llmClient, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	interviewService := service.NewInterviewService(interviewRepo, log)
	dsaService := service.NewDSASessionService(cfg, gw, interviewService, sessionRepo, rdb, log)
	chatService := service.NewChatSessionService(cfg, gw, interviewService, sessionRepo, rdb, log)
	defer dsaService.Shutdown()
	defer chatService.Shutdown()

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, candidateRepo, recruiterRepo),
		Interview: handler.NewInterviewHandler(interviewService, sessionRepo),
		DSA:       handler.NewDSAHandler(dsaService),
		Chat:      handler.NewChatHandler(chatService),
		WS:        handler.NewWSHandler(dsaService, chatService, log, cfg.AllowedOrigins),
		System:    handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	scoreWorker := worker.NewScoreWorker(pool, rdb, log)
	transcriptWorker := worker.NewTranscriptWorker(pool, rdb, log)

	go scoreWorker.Start(workerCtx)
	go transcriptWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
