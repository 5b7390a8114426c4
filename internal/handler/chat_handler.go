package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/model"
	"github.com/hireloop/interview-backend/internal/response"
	"github.com/hireloop/interview-backend/internal/service"
	"github.com/hireloop/interview-backend/internal/validator"
)

// ChatHandler drives the candidate's open-ended interview flow.
type ChatHandler struct {
	chatService *service.ChatSessionService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatSessionService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Start godoc
// POST /api/v1/candidate/interviews/:interview_id/chat/start
// Creates (or resumes) the candidate's chat session and returns the first
// question.
func (h *ChatHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.chatService.Start(c.Request.Context(), interviewID, claims.UserID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// State godoc
// GET /api/v1/candidate/chat/:session_id/state
func (h *ChatHandler) State(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.chatService.State(sessionID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Answer godoc
// POST /api/v1/candidate/chat/:session_id/answer
// Records the answer to the current question and returns either the next
// question or completion.
func (h *ChatHandler) Answer(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.chatService.SubmitAnswer(c.Request.Context(), sessionID, req.Answer)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
