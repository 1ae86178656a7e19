package models

// SlideDTO is the player-facing view of a slide. Correct answers are only
// included for the host.
type SlideDTO struct {
	Question         string   `json:"question"`
	QuestionType     string   `json:"question_type"`
	Options          []string `json:"options"`
	ImageData        string   `json:"image_data,omitempty"`
	CorrectAnswer    string   `json:"correct_answer,omitempty"`
	CorrectAnswers   []string `json:"correct_answers,omitempty"`
	OpenEndedAnswers []string `json:"open_ended_answers,omitempty"`
}

func (s SlideSnapshot) ToDTO(isHost bool) SlideDTO {
	dto := SlideDTO{
		Question:     s.Question,
		QuestionType: s.QuestionType,
		Options:      s.Options,
		ImageData:    s.ImageData,
	}
	if isHost {
		dto.CorrectAnswer = s.CorrectAnswer
		dto.CorrectAnswers = s.CorrectAnswers
		dto.OpenEndedAnswers = s.OpenEndedAnswers
	}
	return dto
}

// GameStateDTO is the snapshot pushed to clients over WebSocket and served
// by the session state endpoint. Slides are filtered per role.
type GameStateDTO struct {
	Code         string     `json:"code"`
	SetID        uint       `json:"set_id"`
	SetTitle     string     `json:"set_title"`
	Status       string     `json:"status"`
	SlideIndex   int        `json:"slide_index"`
	Announcement string     `json:"announcement,omitempty"`
	Players      []Player   `json:"players"`
	Slides       []SlideDTO `json:"slides"`
	Version      int64      `json:"version"`
}

func (g *GameState) ToDTO(isHost bool) GameStateDTO {
	slides := make([]SlideDTO, len(g.Slides))
	for i, s := range g.Slides {
		slides[i] = s.ToDTO(isHost)
	}
	return GameStateDTO{
		Code:         g.Code,
		SetID:        g.SetID,
		SetTitle:     g.SetTitle,
		Status:       g.Status,
		SlideIndex:   g.SlideIndex,
		Announcement: g.Announcement,
		Players:      g.Players,
		Slides:       slides,
		Version:      g.Version,
	}
}
