package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"falconsphere/internal/models"
)

func makeQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{Text: fmt.Sprintf("question %d", i+1)}
	}
	return questions
}

func TestPaginate_TwelveItemsFivePerPage(t *testing.T) {
	items := makeQuestions(12)

	page1, totalPages, err := Paginate(items, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, totalPages)
	assert.Len(t, page1, 5)

	page2, _, err := Paginate(items, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	page3, _, err := Paginate(items, 3, 5)
	require.NoError(t, err)
	assert.Len(t, page3, 2)
	assert.Equal(t, "question 11", page3[0].Text)
	assert.Equal(t, "question 12", page3[1].Text)
}

func TestPaginate_ExactMultiple(t *testing.T) {
	items := makeQuestions(10)

	_, totalPages, err := Paginate(items, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, totalPages)

	page2, _, err := Paginate(items, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := makeQuestions(12)

	_, _, err := Paginate(items, 4, 5)
	assert.ErrorIs(t, err, ErrBadPage)

	_, _, err = Paginate(items, 0, 5)
	assert.ErrorIs(t, err, ErrBadPage)
}

func TestPaginate_Empty(t *testing.T) {
	page, totalPages, err := Paginate(nil, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, totalPages)
	assert.Empty(t, page)
}

func TestPaginate_DefaultPerPage(t *testing.T) {
	items := makeQuestions(7)

	page, totalPages, err := Paginate(items, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, totalPages)
	assert.Len(t, page, QuestionsPerPage)
}
