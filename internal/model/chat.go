package model

// ChatTurn is one question/answer pair in the open-ended flow, appended in
// strict arrival order and immutable once appended. Pending marks a turn
// whose follow-up question has not been produced yet (optimistic append).
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Pending  bool   `json:"pending,omitempty"`
}

// SubmitAnswerRequest is the payload for answering the current question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required,min=1"`
}

// SubmitAnswerResponse mirrors the original session contract: either the
// interview is complete, or the next question is returned.
type SubmitAnswerResponse struct {
	Completed       bool   `json:"completed"`
	CurrentQuestion string `json:"current_question,omitempty"`
}
