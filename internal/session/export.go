package session

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"falconsphere/internal/models"
)

// ExportCSV writes per-player analytics for a game as CSV, ranked like the
// leaderboard.
func (s *Service) ExportCSV(ctx context.Context, code string, w io.Writer) error {
	game, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	return writeResultsCSV(w, game)
}

func writeResultsCSV(w io.Writer, game *models.GameState) error {
	out := csv.NewWriter(w)
	header := []string{"Rank", "Name", "Correct Answers", "Questions Answered", "Accuracy (%)", "Score", "Average Time (s)"}
	if err := out.Write(header); err != nil {
		return err
	}

	for rank, p := range rankPlayers(game.Players) {
		var avgTime float64
		if n := len(p.QuestionTimes); n > 0 {
			var total float64
			for _, t := range p.QuestionTimes {
				total += t
			}
			avgTime = total / float64(n)
		}
		record := []string{
			fmt.Sprintf("%d", rank+1),
			p.Name,
			fmt.Sprintf("%d", p.CorrectAnswers),
			fmt.Sprintf("%d", p.CurrentSlide),
			fmt.Sprintf("%.1f", accuracy(p.CorrectAnswers, p.CurrentSlide)),
			fmt.Sprintf("%d", p.Score),
			fmt.Sprintf("%.2f", avgTime),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
