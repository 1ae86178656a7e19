package session

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"falconsphere/internal/models"
)

func TestWriteResultsCSVRanksLikeLeaderboard(t *testing.T) {
	game := &models.GameState{
		Code:   "ABC123",
		Status: models.GameEnded,
		Players: []models.Player{
			{ID: "p1", Name: "Ada", Score: 1800, CorrectAnswers: 2, CurrentSlide: 3, QuestionTimes: []float64{1, 2, 3}},
			{ID: "p2", Name: "Grace", Score: 2700, CorrectAnswers: 3, CurrentSlide: 3, QuestionTimes: []float64{2, 2, 2}},
			{ID: "p3", Name: "Edsger", Score: 2100, CorrectAnswers: 2, CurrentSlide: 3, QuestionTimes: []float64{1, 1, 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResultsCSV(&buf, game))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	// The CSV rows and the leaderboard come out of the same ranking.
	entries := Leaderboard(game)
	for i, entry := range entries {
		assert.Equal(t, entry.Name, records[i+1][1])
	}
	assert.Equal(t, []string{"Grace", "Edsger", "Ada"},
		[]string{records[1][1], records[2][1], records[3][1]})

	// Spot-check a full row: rank, counts, accuracy, score, average time.
	assert.Equal(t, []string{"1", "Grace", "3", "3", "100.0", "2700", "2.00"}, records[1])
}
