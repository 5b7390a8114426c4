package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/hireloop/interview-backend/internal/model"
)

// The provider returns free text. Everything that turns that text into
// structure lives here, so no parsing failure can escape into the
// orchestration layer as anything but a typed error.

var errNoJSON = errors.New("no JSON object found in response")

// extractJSONObject strips code-fence markers and returns the substring
// between the first '{' and the last '}'. Tolerant of surrounding prose.
func extractJSONObject(s string) (string, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSON
	}
	return clean[start : end+1], nil
}

// parseGeneratedQuestion decodes and validates the question object the
// generation prompt demands. Missing required fields fail the parse.
func parseGeneratedQuestion(raw string) (*model.GeneratedQuestion, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var q model.GeneratedQuestion
	if err := json.Unmarshal([]byte(obj), &q); err != nil {
		return nil, err
	}

	if q.Title == "" || q.Description == "" || len(q.TestCases) == 0 {
		return nil, errors.New("invalid question format")
	}
	return &q, nil
}

// parseVerdict interprets a grading reply. Passed is a case-insensitive
// prefix match on "PASS"; anything else is a failure with the raw reply
// as the message.
func parseVerdict(raw string) (bool, string) {
	msg := strings.TrimSpace(raw)
	return strings.HasPrefix(strings.ToUpper(msg), "PASS"), msg
}
