package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"falconsphere/internal/models"
)

func testGame(slideCount int) *models.GameState {
	slides := make([]models.SlideSnapshot, slideCount)
	for i := range slides {
		slides[i] = models.SlideSnapshot{
			Question:      fmt.Sprintf("Question %d", i+1),
			QuestionType:  models.MultipleChoice,
			Options:       []string{"right", "wrong"},
			CorrectAnswer: "right",
		}
	}
	return &models.GameState{
		Code:   "ABC123",
		Status: models.GameStarted,
		Slides: slides,
		Players: []models.Player{
			{ID: "p1", Name: "Ada"},
		},
	}
}

func TestApplyAnswer_AllCorrectScoresN(t *testing.T) {
	const slideCount = 4
	game := testGame(slideCount)

	for i := 0; i < slideCount; i++ {
		correct, _, err := applyAnswer(game, "p1", []string{"right"}, 1)
		require.NoError(t, err)
		assert.True(t, correct)
	}

	player := game.Players[0]
	assert.Equal(t, slideCount, player.CorrectAnswers)
	assert.Equal(t, slideCount, player.CurrentSlide)
	assert.InDelta(t, 100.0, player.Percentage, 0.001)
	assert.Equal(t, []bool{true, true, true, true}, player.QuestionResults)
}

func TestApplyAnswer_AllWrongScoresZero(t *testing.T) {
	const slideCount = 4
	game := testGame(slideCount)

	for i := 0; i < slideCount; i++ {
		correct, _, err := applyAnswer(game, "p1", []string{"wrong"}, 1)
		require.NoError(t, err)
		assert.False(t, correct)
	}

	player := game.Players[0]
	assert.Equal(t, 0, player.CorrectAnswers)
	assert.Equal(t, 0, player.Score)
	assert.InDelta(t, 0.0, player.Percentage, 0.001)
}

func TestApplyAnswer_Errors(t *testing.T) {
	game := testGame(1)

	_, _, err := applyAnswer(game, "nobody", []string{"right"}, 1)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, _, err = applyAnswer(game, "p1", []string{"right"}, 1)
	assert.NoError(t, err)

	// Past the last slide the player is finished.
	_, _, err = applyAnswer(game, "p1", []string{"right"}, 1)
	assert.ErrorIs(t, err, ErrPlayerFinished)

	game.Status = models.GameCreated
	_, _, err = applyAnswer(game, "p1", []string{"right"}, 1)
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestLeaderboard_DescendingByCorrectAnswers(t *testing.T) {
	game := &models.GameState{
		Players: []models.Player{
			{ID: "a", Name: "Ada", CorrectAnswers: 3, CurrentSlide: 5},
			{ID: "b", Name: "Bob", CorrectAnswers: 1, CurrentSlide: 5},
			{ID: "c", Name: "Cyd", CorrectAnswers: 5, CurrentSlide: 5},
		},
	}

	entries := Leaderboard(game)
	got := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.CorrectAnswers
	}
	assert.Equal(t, []int{5, 3, 1}, got)
}

func TestLeaderboard_TieBreaks(t *testing.T) {
	game := &models.GameState{
		Players: []models.Player{
			{ID: "a", Name: "Zoe", CorrectAnswers: 2, Score: 900},
			{ID: "b", Name: "Amy", CorrectAnswers: 2, Score: 900},
			{ID: "c", Name: "Ben", CorrectAnswers: 2, Score: 1500},
		},
	}

	entries := Leaderboard(game)
	assert.Equal(t, "Ben", entries[0].Name)
	assert.Equal(t, "Amy", entries[1].Name)
	assert.Equal(t, "Zoe", entries[2].Name)
}

func TestLeaderboard_NoAnswersIsZeroPercent(t *testing.T) {
	// Regression: a player with zero answered slides used to render
	// NaN/Infinity accuracy in the leaderboard.
	game := &models.GameState{
		Players: []models.Player{
			{ID: "a", Name: "Ada", CorrectAnswers: 0, CurrentSlide: 0},
		},
	}

	entries := Leaderboard(game)
	assert.Equal(t, 0.0, entries[0].Percentage)
}

func TestGenerateJoinCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateJoinCode()
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.Contains(t, codeCharset, string(c))
		}
	}
}

func TestErrNoSessionMessage(t *testing.T) {
	// The join screen renders this message verbatim.
	assert.Equal(t,
		"No sessions exist with that code. Ask your host to start the game.",
		ErrNoSession.Error())
}

func TestJoinAnswers(t *testing.T) {
	assert.Equal(t, "a", joinAnswers([]string{"a"}))
	assert.Equal(t, "a; b", joinAnswers([]string{"a", "b"}))
	assert.Equal(t, "", joinAnswers(nil))
}
