package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/service"
	ws "github.com/hireloop/interview-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live session state to connected candidates.
type WSHandler struct {
	dsaService  *service.DSASessionService
	chatService *service.ChatSessionService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(dsaService *service.DSASessionService, chatService *service.ChatSessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		dsaService:  dsaService,
		chatService: chatService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/candidate/sessions/:session_id/stream
// Upgrades to WebSocket and pushes the server-side countdown and phase
// changes once per second. The server clock is authoritative: clients render
// what arrives here instead of counting down locally.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	phase, _, ok := h.probe(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("candidate_id", claims.UserID).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Candidate connected")

	// Reader goroutine: detects close and forwards pings. All writes stay
	// on this goroutine, as gorilla allows one concurrent writer only.
	pings := make(chan struct{}, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastPhase := phase
	for {
		select {
		case <-readerDone:
			return

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ticker.C:
			phase, remaining, ok := h.probe(sessionID)
			if !ok {
				ws.WriteError(conn, "session no longer available")
				return
			}

			if phase != lastPhase {
				lastPhase = phase
				if err := ws.WriteTyped(conn, ws.PhaseEvent{Event: ws.EventPhase, Phase: phase}); err != nil {
					return
				}
			}

			if err := ws.WriteTyped(conn, ws.TickEvent{Event: ws.EventTick, RemainingSeconds: remaining}); err != nil {
				return
			}

			// One final phase push at completion, then close.
			if phase == string(service.PhaseCompleted) || phase == string(service.PhaseErrored) {
				wsLog.Info().Str("phase", phase).Msg("Session reached terminal phase, closing stream")
				return
			}
		}
	}
}

// probe looks the session up in whichever registry holds it.
func (h *WSHandler) probe(sessionID uuid.UUID) (phase string, remaining int, ok bool) {
	if view, err := h.dsaService.State(sessionID); err == nil {
		return view.Phase, view.RemainingSeconds, true
	}
	if view, err := h.chatService.State(sessionID); err == nil {
		return view.Phase, view.RemainingSeconds, true
	}
	return "", 0, false
}
