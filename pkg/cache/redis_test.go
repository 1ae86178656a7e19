package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"falconsphere/internal/models"
)

func TestLeaderboardRoundTripKeepsNamesakes(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Name: "Ada", Score: 2840, CorrectAnswers: 3, Percentage: 75},
		{Name: "Ada", Score: 1910, CorrectAnswers: 2, Percentage: 50},
		{Name: "Grace", Score: 940, CorrectAnswers: 1, Percentage: 25},
	}

	data, err := encodeLeaderboard(entries)
	require.NoError(t, err)

	decoded, err := decodeLeaderboard(data)
	require.NoError(t, err)

	// Two players sharing a display name stay distinct entries, and every
	// field survives the trip, not just name and correct count.
	require.Len(t, decoded, 3)
	assert.Equal(t, entries, decoded)
}
