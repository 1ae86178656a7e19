package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"falconsphere/internal/models"
)

func TestGradeAnswer_MultipleChoice(t *testing.T) {
	slide := models.SlideSnapshot{
		Question:      "Capital of France?",
		QuestionType:  models.MultipleChoice,
		Options:       []string{"Paris", "London", "Berlin"},
		CorrectAnswer: "Paris",
	}

	assert.True(t, gradeAnswer(slide, []string{"Paris"}))
	assert.False(t, gradeAnswer(slide, []string{"London"}))
	assert.False(t, gradeAnswer(slide, []string{}))
	assert.False(t, gradeAnswer(slide, []string{"Paris", "London"}))
}

func TestGradeAnswer_MultipleCorrect(t *testing.T) {
	slide := models.SlideSnapshot{
		Question:       "Which are prime?",
		QuestionType:   models.MultipleCorrect,
		Options:        []string{"2", "3", "4", "5"},
		CorrectAnswers: []string{"2", "3", "5"},
	}

	assert.True(t, gradeAnswer(slide, []string{"2", "3", "5"}))
	// Order must not matter.
	assert.True(t, gradeAnswer(slide, []string{"5", "2", "3"}))
	// Partial selections and supersets are wrong.
	assert.False(t, gradeAnswer(slide, []string{"2", "3"}))
	assert.False(t, gradeAnswer(slide, []string{"2", "3", "4", "5"}))
	// Duplicated picks cannot substitute for a missing one.
	assert.False(t, gradeAnswer(slide, []string{"2", "2", "3"}))
}

func TestGradeAnswer_OpenEnded(t *testing.T) {
	slide := models.SlideSnapshot{
		Question:         "Largest planet?",
		QuestionType:     models.OpenEnded,
		OpenEndedAnswers: []string{"Jupiter"},
	}

	assert.True(t, gradeAnswer(slide, []string{"Jupiter"}))
	assert.True(t, gradeAnswer(slide, []string{"  jupiter "}))
	assert.False(t, gradeAnswer(slide, []string{"Saturn"}))
	assert.False(t, gradeAnswer(slide, []string{}))
}

func TestAnswerPoints(t *testing.T) {
	assert.Equal(t, 1000, answerPoints(0))
	assert.Equal(t, 900, answerPoints(10))
	// Slow answers bottom out at zero, never negative.
	assert.Equal(t, 0, answerPoints(200))
}

func TestAccuracy_ZeroAnswered(t *testing.T) {
	// A player who has answered nothing must not produce NaN or Inf.
	got := accuracy(0, 0)
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))

	got = accuracy(3, 0)
	assert.Equal(t, 0.0, got)
}

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 50.0, accuracy(1, 2), 0.001)
	assert.InDelta(t, 100.0, accuracy(4, 4), 0.001)
	assert.InDelta(t, 0.0, accuracy(0, 5), 0.001)
}
