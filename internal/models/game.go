package models

import "time"

// Game status values. A game moves created -> started -> ended; there is no
// way back.
const (
	GameCreated = "created"
	GameStarted = "started"
	GameEnded   = "ended"
)

// GameState is the single authoritative document for one live match,
// identified by its join code. It is stored as JSON in Redis and every
// mutation bumps Version through a watched transaction, so concurrent
// writers cannot silently overwrite each other.
type GameState struct {
	Code         string          `json:"code"`
	SetID        uint            `json:"set_id"`
	SetTitle     string          `json:"set_title"`
	Status       string          `json:"status"`
	SlideIndex   int             `json:"slide_index"`
	Announcement string          `json:"announcement,omitempty"`
	Players      []Player        `json:"players"`
	Slides       []SlideSnapshot `json:"slides"`
	Version      int64           `json:"version"`
	StartTime    *time.Time      `json:"start_time,omitempty"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
}

// Player is one participant in a live game. ID is a server-minted UUID so
// kicks and score updates address a stable identity even when two players
// pick the same display name.
type Player struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Score           int       `json:"score"`
	CurrentSlide    int       `json:"current_slide"`
	CorrectAnswers  int       `json:"correct_answers"`
	Percentage      float64   `json:"percentage"`
	Answers         []string  `json:"answers"`
	QuestionResults []bool    `json:"question_results"`
	QuestionTimes   []float64 `json:"question_times"`
}

// SlideSnapshot is a slide copied into the game document when the host
// starts the game, so mid-game edits to the set cannot change questions
// under the players.
type SlideSnapshot struct {
	Question         string   `json:"question"`
	QuestionType     string   `json:"question_type"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correct_answer"`
	CorrectAnswers   []string `json:"correct_answers,omitempty"`
	OpenEndedAnswers []string `json:"open_ended_answers,omitempty"`
	ImageData        string   `json:"image_data,omitempty"`
}

// FindPlayer returns the index of the player with the given ID, or -1.
func (g *GameState) FindPlayer(playerID string) int {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

type LeaderboardEntry struct {
	Name           string  `json:"name"`
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	Percentage     float64 `json:"percentage"`
}
