package gateway

import (
	"fmt"
	"strings"

	"github.com/hireloop/interview-backend/internal/model"
)

func generateQuestionPrompt(topic, difficulty string) string {
	return fmt.Sprintf(`Generate a DSA coding problem for topic: %s with difficulty: %s.
Respond ONLY with a valid JSON object in this exact format, with no additional text, markdown, or explanations:
{
  "title": "Problem Title",
  "description": "Problem description with clear constraints, examples, and what the function should do. Include input/output format.",
  "testCases": [
    {"input": "input1", "output": "expected_output1", "description": "test case 1 description"},
    {"input": "input2", "output": "expected_output2", "description": "test case 2 description"},
    {"input": "input3", "output": "expected_output3", "description": "test case 3 description"}
  ],
  "sampleInput": "sample input for testing",
  "sampleOutput": "expected sample output",
  "difficulty": "%s",
  "hints": ["hint1", "hint2"]
}

Make sure:
1. The problem is clear and has examples
2. Test cases cover edge cases
3. Input/output format is specified
4. Problem is language-agnostic
5. Difficulty level matches: %s`, topic, difficulty, difficulty, difficulty)
}

func runCodePrompt(code, language, input string) string {
	return fmt.Sprintf(`Execute this %s code with the given input and return ONLY the output.

CRITICAL INSTRUCTIONS:
- Run the code with the provided input
- Return ONLY the actual output that the code produces
- Do NOT include any explanations, descriptions, or additional text
- Do NOT say "Output:" or "Result:" - just return the raw output
- If there's an error, return only the error message

Code:
%s

Input: %s

Execute and return only the output:`, language, code, input)
}

func gradeCodePrompt(code, language string, tc model.TestCase) string {
	return fmt.Sprintf(`Execute this %s code with the given test case.

CRITICAL: Respond ONLY with:
- "PASS" (if code executes correctly and output matches expected)
- "FAIL: [brief reason]" (if code fails or output is wrong)

Do NOT include code descriptions, explanations, or additional commentary.

Code:
%s

Test Input: %s
Expected Output: %s

Execute the code and compare actual output with expected output.`, language, code, tc.Input, tc.Output)
}

func chatQuestionsPrompt(position, description string, experience int, asked []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Generate 1 new technical interview question for a %s position with %d years of experience.
Job description: %s.

`, position, experience, description)

	if len(asked) > 0 {
		sb.WriteString("Do NOT repeat these questions:\n")
		sb.WriteString(strings.Join(asked, "\n"))
		sb.WriteString("\n\n")
	}

	sb.WriteString(`Respond ONLY with a valid JSON object in this exact format, with no additional text:
{"question": "the interview question"}`)
	return sb.String()
}
