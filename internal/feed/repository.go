package feed

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"falconsphere/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *Repository) GetByID(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("replies.created_at asc")
	}).Preload("Reactions").First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *Repository) Update(question *models.Question) error {
	return r.db.Model(question).Select("text", "tags", "difficulty").Updates(question).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// ListFilter narrows the feed listing. Zero values mean "no filter".
type ListFilter struct {
	Search     string
	Tag        string
	Difficulty string
}

// List returns matching questions newest first. Tag filtering matches
// against the serialized tag array.
func (r *Repository) List(f ListFilter) ([]models.Question, error) {
	tx := r.db.Model(&models.Question{}).Order("created_at desc")
	if f.Search != "" {
		tx = tx.Where("text ILIKE ?", "%"+f.Search+"%")
	}
	if f.Tag != "" {
		tx = tx.Where("tags::text ILIKE ?", "%"+f.Tag+"%")
	}
	if f.Difficulty != "" {
		tx = tx.Where("difficulty = ?", f.Difficulty)
	}

	var questions []models.Question
	err := tx.Find(&questions).Error
	return questions, err
}

// Vote applies a like or dislike as atomic column increments, so two
// simultaneous voters both land.
func (r *Repository) Vote(id uint, up bool) (*models.Question, error) {
	updates := map[string]interface{}{
		"likes": gorm.Expr("likes + 1"),
		"votes": gorm.Expr("votes + 1"),
	}
	if !up {
		updates = map[string]interface{}{
			"dislikes": gorm.Expr("dislikes + 1"),
			"votes":    gorm.Expr("votes - 1"),
		}
	}

	result := r.db.Model(&models.Question{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *Repository) AddReply(reply *models.Reply) error {
	return r.db.Create(reply).Error
}

func (r *Repository) GetReply(id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *Repository) DeleteReply(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reply{}, id).Error
	})
}

// React bumps the emoji counter for a question (replyID zero) or a reply.
// Upsert plus atomic increment replaces the old read-modify-rewrite of the
// whole reactions map.
func (r *Repository) React(questionID, replyID uint, emoji string) error {
	reaction := models.Reaction{
		QuestionID: questionID,
		ReplyID:    replyID,
		Emoji:      emoji,
		Count:      1,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question_id"}, {Name: "reply_id"}, {Name: "emoji"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("reactions.count + 1"),
		}),
	}).Create(&reaction).Error
	if err != nil {
		log.Printf("Error recording reaction %q on question %d: %v", emoji, questionID, err)
	}
	return err
}
