package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/interview-backend/internal/middleware"
	"github.com/hireloop/interview-backend/internal/model"
	"github.com/hireloop/interview-backend/internal/repository"
	"github.com/hireloop/interview-backend/internal/response"
	"github.com/hireloop/interview-backend/internal/service"
	"github.com/hireloop/interview-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	candidates  *repository.CandidateRepository
	recruiters  *repository.RecruiterRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	candidates *repository.CandidateRepository,
	recruiters *repository.RecruiterRepository,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		candidates:  candidates,
		recruiters:  recruiters,
	}
}

// RegisterRequest is the shared signup payload for both account types.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CandidateLogin godoc
// POST /api/v1/auth/candidate/login
// Validates email + password, checks for an existing session (rejects if
// active), returns JWT.
func (h *AuthHandler) CandidateLogin(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidates.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(candidate.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateCandidateToken(c.Request.Context(), candidate.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"candidate": gin.H{
			"id":    candidate.ID,
			"name":  candidate.Name,
			"email": candidate.Email,
		},
	})
}

// CandidateRegister godoc
// POST /api/v1/auth/candidate/register
func (h *AuthHandler) CandidateRegister(c *gin.Context) {
	var req RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	candidate := &model.Candidate{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.candidates.Create(c.Request.Context(), candidate); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"candidate": gin.H{
			"id":    candidate.ID,
			"name":  candidate.Name,
			"email": candidate.Email,
		},
	})
}

// CandidateLogout godoc
// POST /api/v1/auth/candidate/logout
// Logs out the currently authenticated candidate, freeing the single-device
// session slot.
func (h *AuthHandler) CandidateLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetCandidateSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetCandidateProfile godoc
// GET /api/v1/auth/candidate/me
func (h *AuthHandler) GetCandidateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	candidate, err := h.candidates.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"candidate": gin.H{
			"id":    candidate.ID,
			"name":  candidate.Name,
			"email": candidate.Email,
		},
	})
}

// RecruiterLogin godoc
// POST /api/v1/auth/recruiter/login
func (h *AuthHandler) RecruiterLogin(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	recruiter, err := h.recruiters.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(recruiter.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateRecruiterToken(recruiter.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"recruiter": gin.H{
			"id":    recruiter.ID,
			"name":  recruiter.Name,
			"email": recruiter.Email,
		},
	})
}

// GetRecruiterProfile godoc
// GET /api/v1/auth/recruiter/me
func (h *AuthHandler) GetRecruiterProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	recruiter, err := h.recruiters.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"recruiter": gin.H{
			"id":    recruiter.ID,
			"name":  recruiter.Name,
			"email": recruiter.Email,
		},
	})
}
