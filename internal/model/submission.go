package model

// TestResult is the graded outcome of a single test case.
type TestResult struct {
	Passed      bool   `json:"passed"`
	Message     string `json:"message"`
	Description string `json:"test_case"`
}

// Submission is a graded attempt of candidate code against the full
// test-case set for one question. At most one live Submission exists per
// question index — resubmission replaces the prior entry.
type Submission struct {
	QuestionIndex int          `json:"question_index"`
	TopicID       int          `json:"topic_id"`
	Code          string       `json:"code"`
	Language      string       `json:"language"`
	TestResults   []TestResult `json:"test_results"`
	PassedCount   int          `json:"passed_count"`
	TotalCount    int          `json:"total_count"`
	Score         int          `json:"score"`
	AllPassed     bool         `json:"all_passed"`
}

// RunResult is the outcome of one trial execution against the sample input.
// Advisory only: the match is a trimmed string comparison, never graded.
type RunResult struct {
	Output   string `json:"output,omitempty"`
	Expected string `json:"expected"`
	Matches  bool   `json:"matches"`
	Failed   bool   `json:"failed"`
	Message  string `json:"message,omitempty"`
	RunsLeft int    `json:"runs_left"`
}

// RunCodeRequest is the payload for a trial execution.
type RunCodeRequest struct {
	Index    int    `json:"index" binding:"min=0"`
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required,oneof=Python C++ Java"`
}

// SubmitSolutionRequest is the payload for grading a solution.
type SubmitSolutionRequest struct {
	Index    int    `json:"index" binding:"min=0"`
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required,oneof=Python C++ Java"`
}

// SelectQuestionRequest switches the session's current question.
type SelectQuestionRequest struct {
	Index int `json:"index" binding:"min=0"`
}
