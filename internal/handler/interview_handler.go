package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/model"
	"github.com/hireloop/interview-backend/internal/repository"
	"github.com/hireloop/interview-backend/internal/response"
	"github.com/hireloop/interview-backend/internal/service"
	"github.com/hireloop/interview-backend/internal/validator"
)

// InterviewHandler handles recruiter interview management and the
// candidate-facing listing.
type InterviewHandler struct {
	interviewService *service.InterviewService
	sessions         *repository.SessionRepository
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService *service.InterviewService, sessions *repository.SessionRepository) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		sessions:         sessions,
	}
}

// Create godoc
// POST /api/v1/recruiter/interviews
func (h *InterviewHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateInterviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	iv, err := h.interviewService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if err == service.ErrAllocationInvalid {
			response.Fail(c, http.StatusBadRequest, response.ErrAllocationInvalid)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"interview": iv})
}

// Update godoc
// PUT /api/v1/recruiter/interviews/:interview_id
func (h *InterviewHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateInterviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	iv, err := h.interviewService.Update(c.Request.Context(), claims.UserID, interviewID, &req)
	if err != nil {
		switch err {
		case service.ErrNotInterviewAuthor:
			response.Fail(c, http.StatusForbidden, response.ErrNotInterviewAuthor)
		case service.ErrAllocationInvalid:
			response.Fail(c, http.StatusBadRequest, response.ErrAllocationInvalid)
		case service.ErrInterviewNotFound:
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"interview": iv})
}

// Delete godoc
// DELETE /api/v1/recruiter/interviews/:interview_id
func (h *InterviewHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.interviewService.Delete(c.Request.Context(), claims.UserID, interviewID); err != nil {
		switch err {
		case service.ErrNotInterviewAuthor:
			response.Fail(c, http.StatusForbidden, response.ErrNotInterviewAuthor)
		case service.ErrInterviewNotFound:
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetByID godoc
// GET /api/v1/recruiter/interviews/:interview_id
func (h *InterviewHandler) GetByID(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	iv, err := h.interviewService.GetByID(c.Request.Context(), interviewID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"interview": iv})
}

// ListMine godoc
// GET /api/v1/recruiter/interviews
func (h *InterviewHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviews, err := h.interviewService.ListByAuthor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"interviews": interviews})
}

// Results godoc
// GET /api/v1/recruiter/interviews/:interview_id/results
// Returns every candidate session of the interview with persisted scores.
func (h *InterviewHandler) Results(c *gin.Context) {
	claims := middleware.GetClaims(c)

	interviewID, err := uuid.Parse(c.Param("interview_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	iv, err := h.interviewService.GetByID(c.Request.Context(), interviewID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if iv.AuthorID != claims.UserID {
		response.Fail(c, http.StatusForbidden, response.ErrNotInterviewAuthor)
		return
	}

	results, err := h.sessions.ListResults(c.Request.Context(), interviewID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// SessionDetail godoc
// GET /api/v1/recruiter/sessions/:session_id
// Returns one session's persisted scores and transcript.
func (h *InterviewHandler) SessionDetail(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	rec, err := h.sessions.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	iv, err := h.interviewService.GetByID(c.Request.Context(), rec.InterviewID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if iv.AuthorID != claims.UserID {
		response.Fail(c, http.StatusForbidden, response.ErrNotInterviewAuthor)
		return
	}

	scores, err := h.sessions.ListScores(c.Request.Context(), sessionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	transcript, err := h.sessions.ListTranscript(c.Request.Context(), sessionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session":    rec,
		"scores":     scores,
		"transcript": transcript,
	})
}

// ListOpen godoc
// GET /api/v1/candidate/interviews
// Lists interviews currently inside their open window.
func (h *InterviewHandler) ListOpen(c *gin.Context) {
	interviews, err := h.interviewService.ListOpen(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"interviews": interviews})
}
