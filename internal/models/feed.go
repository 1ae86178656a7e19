package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is a peer-help feed post.
type Question struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	AuthorID   uint           `json:"author_id" gorm:"index"`
	Text       string         `json:"text" gorm:"not null"`
	Tags       []string       `json:"tags" gorm:"serializer:json"`
	Difficulty string         `json:"difficulty"`
	Likes      int            `json:"likes"`
	Dislikes   int            `json:"dislikes"`
	Votes      int            `json:"votes"`
	Replies    []Reply        `json:"replies,omitempty" gorm:"foreignKey:QuestionID"`
	Reactions  []Reaction     `json:"reactions,omitempty" gorm:"foreignKey:QuestionID"`
}

// Reply is a threaded answer to a feed question. Threading is a flat
// ParentID reference, not a nested tree.
type Reply struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	QuestionID uint           `json:"question_id" gorm:"index"`
	ParentID   *uint          `json:"parent_id,omitempty"`
	AuthorID   uint           `json:"author_id"`
	Text       string         `json:"text" gorm:"not null"`
}

// Reaction is an emoji counter on a question or one of its replies.
// ReplyID zero means the reaction targets the question itself; using zero
// instead of NULL keeps the uniqueness constraint effective in Postgres.
type Reaction struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_reaction_target"`
	ReplyID    uint   `json:"reply_id" gorm:"not null;default:0;uniqueIndex:idx_reaction_target"`
	Emoji      string `json:"emoji" gorm:"size:32;not null;uniqueIndex:idx_reaction_target"`
	Count      int    `json:"count" gorm:"not null;default:0"`
}
