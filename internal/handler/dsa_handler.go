package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/model"
	"github.com/hireloop/interview-backend/internal/response"
	"github.com/hireloop/interview-backend/internal/service"
	"github.com/hireloop/interview-backend/internal/validator"
)

// DSAHandler drives the candidate's timed coding session.
type DSAHandler struct {
	dsaService *service.DSASessionService
}

// NewDSAHandler creates a new DSAHandler.
func NewDSAHandler(dsaService *service.DSASessionService) *DSAHandler {
	return &DSAHandler{dsaService: dsaService}
}

// failSession maps session service errors onto response codes.
func failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, service.ErrNoTopics):
		response.Fail(c, http.StatusConflict, response.ErrNoTopics)
	case errors.Is(err, service.ErrRunsExhausted):
		response.Fail(c, http.StatusTooManyRequests, response.ErrRunsExhausted)
	case errors.Is(err, service.ErrTurnPending):
		response.Fail(c, http.StatusConflict, response.ErrTurnPending)
	case errors.Is(err, service.ErrQuestionIndex):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, service.ErrInterviewNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrInterviewNotOpen)
	case errors.Is(err, service.ErrInterviewEnded):
		response.Fail(c, http.StatusConflict, response.ErrInterviewEnded)
	case errors.Is(err, service.ErrInterviewNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Start godoc
// POST /api/v1/candidate/interviews/:interview_id/dsa/start
// Creates (or resumes) the candidate's timed coding session.
func (h *DSAHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.dsaService.Start(c.Request.Context(), interviewID, claims.UserID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// State godoc
// GET /api/v1/candidate/dsa/:session_id/state
func (h *DSAHandler) State(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.dsaService.State(sessionID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Topics godoc
// GET /api/v1/candidate/dsa/:session_id/topics
// Returns the session's ordered topic list.
func (h *DSAHandler) Topics(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	topics, err := h.dsaService.Topics(sessionID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}

// SelectQuestion godoc
// POST /api/v1/candidate/dsa/:session_id/select
func (h *DSAHandler) SelectQuestion(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SelectQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.dsaService.SelectQuestion(sessionID, req.Index)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Run godoc
// POST /api/v1/candidate/dsa/:session_id/run
// Trial-executes code against the sample input. Costs one run even when the
// execution itself fails; an execution failure is a successful response with
// a failed result, not an HTTP error.
func (h *DSAHandler) Run(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RunCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.dsaService.RunSample(c.Request.Context(), sessionID, &req)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Submit godoc
// POST /api/v1/candidate/dsa/:session_id/submit
// Grades the solution against the full test-case set.
func (h *DSAHandler) Submit(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitSolutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.dsaService.SubmitSolution(c.Request.Context(), sessionID, &req)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}

// Final godoc
// POST /api/v1/candidate/dsa/:session_id/final
// Ends the session early and returns the final snapshot.
func (h *DSAHandler) Final(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.dsaService.FinalSubmit(c.Request.Context(), sessionID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}
