package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hireloop/interview-backend/internal/config"
	"github.com/hireloop/interview-backend/internal/handler"
	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/response"
	"github.com/hireloop/interview-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Interview *handler.InterviewHandler
	DSA       *handler.DSAHandler
	Chat      *handler.ChatHandler
	WS        *handler.WSHandler
	System    *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/candidate/login", handlers.Auth.CandidateLogin)
		auth.POST("/candidate/register", handlers.Auth.CandidateRegister)
		auth.POST("/recruiter/login", handlers.Auth.RecruiterLogin)

		// Authenticated profile routes
		auth.POST("/candidate/logout", middleware.RequireCandidateJWT(authService), handlers.Auth.CandidateLogout)
		auth.GET("/candidate/me", middleware.RequireCandidateJWT(authService), handlers.Auth.GetCandidateProfile)
		auth.GET("/recruiter/me", middleware.RequireRecruiterJWT(authService), handlers.Auth.GetRecruiterProfile)
	}

	// ─── 2. Candidate Group (JWT + Single Device) ──────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(
		middleware.RequireCandidateJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		candidateAPI.GET("/interviews", handlers.Interview.ListOpen)

		// Open-ended interview flow
		candidateAPI.POST("/interviews/:interview_id/chat/start", handlers.Chat.Start)
		candidateAPI.GET("/chat/:session_id/state", handlers.Chat.State)
		candidateAPI.POST("/chat/:session_id/answer", handlers.Chat.Answer)

		// Timed coding session
		candidateAPI.POST("/interviews/:interview_id/dsa/start", handlers.DSA.Start)
		candidateAPI.GET("/dsa/:session_id/topics", handlers.DSA.Topics)
		candidateAPI.GET("/dsa/:session_id/state", handlers.DSA.State)
		candidateAPI.POST("/dsa/:session_id/select", handlers.DSA.SelectQuestion)
		candidateAPI.POST("/dsa/:session_id/run", handlers.DSA.Run)
		candidateAPI.POST("/dsa/:session_id/submit", handlers.DSA.Submit)
		candidateAPI.POST("/dsa/:session_id/final", handlers.DSA.Final)
	}

	// ─── 3. WebSocket Group (Candidate WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateWSAuth(authService))
	{
		ws.GET("/candidate/sessions/:session_id/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Recruiter Group (JWT) ──────────────────────────────────────
	recruiterAPI := router.Group("/api/v1/recruiter")
	recruiterAPI.Use(middleware.RequireRecruiterJWT(authService))
	{
		recruiterAPI.GET("/interviews", handlers.Interview.ListMine)
		recruiterAPI.POST("/interviews", handlers.Interview.Create)
		recruiterAPI.GET("/interviews/:interview_id", handlers.Interview.GetByID)
		recruiterAPI.PUT("/interviews/:interview_id", handlers.Interview.Update)
		recruiterAPI.DELETE("/interviews/:interview_id", handlers.Interview.Delete)
		recruiterAPI.GET("/interviews/:interview_id/results", handlers.Interview.Results)
		recruiterAPI.GET("/sessions/:session_id", handlers.Interview.SessionDetail)

		// System Monitoring
		recruiterAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
