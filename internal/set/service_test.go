package set

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"falconsphere/internal/models"
	"falconsphere/pkg/filter"
)

func validTestSet() *models.Set {
	return &models.Set{
		Title: "World capitals",
		Slides: []models.Slide{
			{
				Question:      "Capital of France?",
				QuestionType:  models.MultipleChoice,
				Options:       []string{"Paris", "London"},
				CorrectAnswer: "Paris",
			},
		},
	}
}

func TestValidateSet_Valid(t *testing.T) {
	assert.NoError(t, validateSet(validTestSet(), filter.New()))
}

func TestValidateSet_CorrectAnswerNotAnOption(t *testing.T) {
	set := validTestSet()
	set.Slides[0].CorrectAnswer = "Madrid"

	err := validateSet(set, filter.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of the slide's options")
}

func TestValidateSet_MultipleCorrectRequiresAllOptions(t *testing.T) {
	set := validTestSet()
	set.Slides[0] = models.Slide{
		Question:       "Which are primary colors?",
		QuestionType:   models.MultipleCorrect,
		Options:        []string{"Red", "Blue", "Green"},
		CorrectAnswers: []string{"Red", "Purple"},
	}

	err := validateSet(set, filter.New())
	assert.Error(t, err)

	set.Slides[0].CorrectAnswers = []string{"Red", "Blue"}
	assert.NoError(t, validateSet(set, filter.New()))
}

func TestValidateSet_OpenEndedNeedsAcceptedAnswers(t *testing.T) {
	set := validTestSet()
	set.Slides[0] = models.Slide{
		Question:     "Largest planet?",
		QuestionType: models.OpenEnded,
	}

	err := validateSet(set, filter.New())
	assert.Error(t, err)

	set.Slides[0].OpenEndedAnswers = []string{"Jupiter"}
	assert.NoError(t, validateSet(set, filter.New()))
}

func TestValidateSet_EmptyTitleOrSlides(t *testing.T) {
	set := validTestSet()
	set.Title = ""
	assert.Error(t, validateSet(set, filter.New()))

	set = validTestSet()
	set.Slides = nil
	assert.ErrorIs(t, validateSet(set, filter.New()), ErrNoSlides)
}

func TestValidateSet_EmptyQuestion(t *testing.T) {
	set := validTestSet()
	set.Slides[0].Question = ""
	assert.Error(t, validateSet(set, filter.New()))
}

func TestValidateSet_ProfanityBlocked(t *testing.T) {
	set := validTestSet()
	set.Title = "total bullshit trivia"

	err := validateSet(set, filter.New())
	assert.ErrorIs(t, err, filter.ErrProfanity)
	assert.NotEmpty(t, err.Error())
}

func TestValidateSet_ProfanityInOption(t *testing.T) {
	set := validTestSet()
	set.Slides[0].Options = []string{"Paris", "fucking London"}

	err := validateSet(set, filter.New())
	assert.ErrorIs(t, err, filter.ErrProfanity)
}

func TestValidateSet_DefaultsQuestionType(t *testing.T) {
	set := validTestSet()
	set.Slides[0].QuestionType = ""

	assert.NoError(t, validateSet(set, filter.New()))
	assert.Equal(t, models.MultipleChoice, set.Slides[0].QuestionType)
}

func TestValidateSet_UnknownQuestionType(t *testing.T) {
	set := validTestSet()
	set.Slides[0].QuestionType = "trueFalse"

	assert.Error(t, validateSet(set, filter.New()))
}
