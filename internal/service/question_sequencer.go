package service

import (
	"context"
	"fmt"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview-backend/internal/model"
)

// QuestionSequencer turns an interview's topic list into the ordered question
// set of a DSA session. Generation failures degrade to a deterministic
// placeholder question per topic, so a session with at least one topic always
// starts with a full question set.
type QuestionSequencer struct {
	gateway      ExecutionGateway
	maxQuestions int
	log          zerolog.Logger
}

func NewQuestionSequencer(gateway ExecutionGateway, maxQuestions int, log zerolog.Logger) *QuestionSequencer {
	return &QuestionSequencer{
		gateway:      gateway,
		maxQuestions: maxQuestions,
		log:          log.With().Str("component", "question_sequencer").Logger(),
	}
}

// Build generates one question per topic, in topic order, capped at the
// configured maximum. It returns ErrNoTopics for an empty topic list; any
// per-topic generation failure yields that topic's fallback question instead
// of failing the whole session.
func (s *QuestionSequencer) Build(ctx context.Context, topics []model.DSATopic) ([]model.Question, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}
	if len(topics) > s.maxQuestions {
		topics = topics[:s.maxQuestions]
	}

	questions := make([]model.Question, 0, len(topics))
	for i, topic := range topics {
		generated, err := s.gateway.GenerateQuestion(ctx, topic.Topic, topic.Difficulty)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("topic", topic.Topic).
				Msg("question generation failed, using fallback")
			questions = append(questions, fallbackQuestion(i, topic))
			continue
		}

		questions = append(questions, model.Question{
			Index:        i,
			TopicID:      topic.ID,
			Topic:        topic.Topic,
			Difficulty:   topic.Difficulty,
			Title:        generated.Title,
			Description:  generated.Description,
			SampleInput:  generated.SampleInput,
			SampleOutput: generated.SampleOutput,
			TestCases:    generated.TestCases,
			Hints:        generated.Hints,
		})
	}

	return questions, nil
}

// fallbackQuestion is the placeholder used when generation fails for a topic.
func fallbackQuestion(index int, topic model.DSATopic) model.Question {
	return model.Question{
		Index:        index,
		TopicID:      topic.ID,
		Topic:        topic.Topic,
		Difficulty:   topic.Difficulty,
		Title:        fmt.Sprintf("%s Problem", capitalize(topic.Topic)),
		Description:  fmt.Sprintf("Solve a %s related problem with %s difficulty. Implement the solution function.", topic.Topic, topic.Difficulty),
		SampleInput:  "sample",
		SampleOutput: "expected",
		TestCases: []model.TestCase{
			{Input: "test1", Output: "result1", Description: "Basic test case"},
			{Input: "test2", Output: "result2", Description: "Edge case"},
			{Input: "test3", Output: "result3", Description: "Complex case"},
		},
		Hints: []string{
			"Consider the problem constraints",
			"Think about edge cases",
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
