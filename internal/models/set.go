package models

import (
	"time"

	"gorm.io/gorm"
)

// Question types a slide can carry. They decide how an answer is graded.
const (
	MultipleChoice  = "multipleChoice"
	MultipleCorrect = "multipleCorrect"
	OpenEnded       = "openEnded"
)

// Set is a study set: an ordered collection of slides owned by a user.
type Set struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Title     string         `json:"title" gorm:"not null"`
	OwnerID   uint           `json:"owner_id" gorm:"index"`
	Slides    []Slide        `json:"slides,omitempty" gorm:"foreignKey:SetID"`
}

// Slide is one question unit within a set. Only the fields matching its
// QuestionType are meaningful: CorrectAnswer for multipleChoice,
// CorrectAnswers for multipleCorrect, OpenEndedAnswers for openEnded.
type Slide struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
	SetID            uint           `json:"set_id" gorm:"index"`
	Position         int            `json:"position"`
	Question         string         `json:"question" gorm:"not null"`
	QuestionType     string         `json:"question_type" gorm:"default:multipleChoice"`
	Options          []string       `json:"options" gorm:"serializer:json"`
	CorrectAnswer    string         `json:"correct_answer"`
	CorrectAnswers   []string       `json:"correct_answers" gorm:"serializer:json"`
	OpenEndedAnswers []string       `json:"open_ended_answers" gorm:"serializer:json"`
	ImageData        string         `json:"image_data,omitempty"`
}
