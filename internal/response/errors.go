package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrRecruiterAccessOnly ErrCode = "RECRUITER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Interview / session ───────────────────────────────────────────
	ErrInterviewNotOpen   ErrCode = "INTERVIEW_NOT_OPEN"
	ErrInterviewEnded     ErrCode = "INTERVIEW_ENDED"
	ErrNotInterviewAuthor ErrCode = "NOT_INTERVIEW_AUTHOR"
	ErrNoTopics           ErrCode = "NO_DSA_TOPICS"
	ErrSessionCompleted   ErrCode = "SESSION_COMPLETED"
	ErrSessionNotFound    ErrCode = "SESSION_NOT_FOUND"
	ErrRunsExhausted      ErrCode = "RUNS_EXHAUSTED"
	ErrTurnPending        ErrCode = "TURN_PENDING"
	ErrExecutionFailed    ErrCode = "EXECUTION_FAILED"
	ErrAllocationInvalid  ErrCode = "ALLOCATION_INVALID"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrCandidateAccessOnly:
		return "This resource is restricted to candidates."
	case ErrRecruiterAccessOnly:
		return "This resource is restricted to recruiters."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Interview / session ───────────────────────────────────────────
	case ErrInterviewNotOpen:
		return "This interview has not started yet."
	case ErrInterviewEnded:
		return "This interview window has ended."
	case ErrNotInterviewAuthor:
		return "You are not the author of this interview."
	case ErrNoTopics:
		return "No DSA topics found for this session."
	case ErrSessionCompleted:
		return "This session is already completed."
	case ErrSessionNotFound:
		return "No active session with that ID."
	case ErrRunsExhausted:
		return "No runs left for this question."
	case ErrTurnPending:
		return "A previous answer is still being processed."
	case ErrExecutionFailed:
		return "Failed to execute code."
	case ErrAllocationInvalid:
		return "DSA and Dev percentages must total 100%."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
