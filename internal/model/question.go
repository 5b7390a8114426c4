package model

// TestCase is one graded input/output pair belonging to a Question.
type TestCase struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Description string `json:"description"`
}

// Question is a concrete DSA problem presented to the candidate. It is
// immutable once generated and owned exclusively by its session.
type Question struct {
	Index        int        `json:"index"`
	TopicID      int        `json:"topic_id"`
	Topic        string     `json:"topic"`
	Difficulty   string     `json:"difficulty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	SampleInput  string     `json:"sample_input"`
	SampleOutput string     `json:"sample_output"`
	TestCases    []TestCase `json:"test_cases"`
	Hints        []string   `json:"hints,omitempty"`
}

// GeneratedQuestion is the JSON object the LLM is asked to produce for a
// topic. Field names follow the prompt contract, not our API casing.
type GeneratedQuestion struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TestCases    []TestCase `json:"testCases"`
	SampleInput  string     `json:"sampleInput"`
	SampleOutput string     `json:"sampleOutput"`
	Difficulty   string     `json:"difficulty"`
	Hints        []string   `json:"hints"`
}
