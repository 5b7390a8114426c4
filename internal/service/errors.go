package service

import "errors"

// Sentinel errors returned by the session services. Handlers map these onto
// the response error codes; everything else surfaces as an internal error.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrNoTopics         = errors.New("interview has no dsa topics")
	ErrRunsExhausted    = errors.New("run allowance exhausted")
	ErrTurnPending      = errors.New("previous answer still being processed")
	ErrQuestionIndex    = errors.New("question index out of range")
	ErrInterviewNotOpen = errors.New("interview window has not opened")
	ErrInterviewEnded   = errors.New("interview window has ended")
)
