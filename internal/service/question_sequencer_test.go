package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-backend/internal/model"
)

func TestSequencerBuildsOneQuestionPerTopic(t *testing.T) {
	gw := &fakeGateway{}
	seq := NewQuestionSequencer(gw, 3, testLogger())

	topics := []model.DSATopic{
		{ID: 1, Topic: "arrays", Difficulty: "Easy"},
		{ID: 2, Topic: "graphs", Difficulty: "Hard"},
	}

	questions, err := seq.Build(context.Background(), topics)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, 0, questions[0].Index)
	assert.Equal(t, 1, questions[0].TopicID)
	assert.Equal(t, "Generated arrays", questions[0].Title)
	assert.Equal(t, 1, questions[1].Index)
	assert.Equal(t, "graphs", questions[1].Topic)
	assert.Equal(t, 2, gw.generateCalls)
}

func TestSequencerEmptyTopics(t *testing.T) {
	seq := NewQuestionSequencer(&fakeGateway{}, 3, testLogger())

	_, err := seq.Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTopics)
}

func TestSequencerCapsAtMax(t *testing.T) {
	gw := &fakeGateway{}
	seq := NewQuestionSequencer(gw, 2, testLogger())

	topics := []model.DSATopic{
		{ID: 1, Topic: "arrays", Difficulty: "Easy"},
		{ID: 2, Topic: "graphs", Difficulty: "Hard"},
		{ID: 3, Topic: "trees", Difficulty: "Medium"},
	}

	questions, err := seq.Build(context.Background(), topics)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, 2, gw.generateCalls)
}

func TestSequencerFallbackOnGenerationFailure(t *testing.T) {
	gw := &fakeGateway{genErr: errors.New("provider down")}
	seq := NewQuestionSequencer(gw, 3, testLogger())

	topics := []model.DSATopic{
		{ID: 7, Topic: "linked lists", Difficulty: "Medium"},
		{ID: 8, Topic: "heaps", Difficulty: "Easy"},
	}

	questions, err := seq.Build(context.Background(), topics)
	require.NoError(t, err, "generation failure must not fail the session")
	require.Len(t, questions, len(topics), "every topic still yields a question")

	first := questions[0]
	assert.Equal(t, "Linked lists Problem", first.Title)
	assert.Equal(t, 7, first.TopicID)
	assert.Equal(t, "Medium", first.Difficulty)
	assert.Len(t, first.TestCases, 3, "fallback questions remain gradable")
	assert.NotEmpty(t, first.SampleInput)
	assert.NotEmpty(t, first.SampleOutput)
}
