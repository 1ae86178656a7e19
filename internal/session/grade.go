package session

import (
	"strings"

	"falconsphere/internal/models"
)

// gradeAnswer decides whether a submission answers the slide correctly.
// multipleChoice wants the single designated option, multipleCorrect wants
// exactly the designated option set, openEnded accepts any listed answer
// ignoring case and surrounding whitespace.
func gradeAnswer(slide models.SlideSnapshot, submitted []string) bool {
	switch slide.QuestionType {
	case models.MultipleCorrect:
		if len(submitted) != len(slide.CorrectAnswers) {
			return false
		}
		want := make(map[string]bool, len(slide.CorrectAnswers))
		for _, a := range slide.CorrectAnswers {
			want[a] = true
		}
		for _, a := range submitted {
			if !want[a] {
				return false
			}
			delete(want, a)
		}
		return true

	case models.OpenEnded:
		if len(submitted) != 1 {
			return false
		}
		given := strings.TrimSpace(submitted[0])
		for _, accepted := range slide.OpenEndedAnswers {
			if strings.EqualFold(given, strings.TrimSpace(accepted)) {
				return true
			}
		}
		return false

	default: // multipleChoice
		return len(submitted) == 1 && submitted[0] == slide.CorrectAnswer
	}
}

// answerPoints awards a time-weighted score for a correct answer: 1000
// minus 10 per second spent, never below zero.
func answerPoints(timeSpent float64) int {
	score := 1000 - int(timeSpent*10)
	if score < 0 {
		score = 0
	}
	return score
}

// accuracy returns correct/answered as a percentage. Zero answered slides
// yields zero, never NaN or Inf.
func accuracy(correct, answered int) float64 {
	if answered <= 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}
