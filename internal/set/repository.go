package set

import (
	"log"

	"gorm.io/gorm"

	"falconsphere/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(set *models.Set) error {
	if err := r.db.Create(set).Error; err != nil {
		log.Printf("Error creating set: %v", err)
		return err
	}
	return nil
}

// Update replaces a set's title and its entire slide list in one
// transaction. Slides are rewritten wholesale; the editor always submits
// the full deck.
func (r *Repository) Update(set *models.Set) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Set{}).Where("id = ?", set.ID).
			Update("title", set.Title).Error; err != nil {
			return err
		}
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Slide{}).Error; err != nil {
			return err
		}
		for i := range set.Slides {
			set.Slides[i].ID = 0
			set.Slides[i].SetID = set.ID
			set.Slides[i].Position = i
		}
		if len(set.Slides) == 0 {
			return nil
		}
		return tx.Create(&set.Slides).Error
	})
}

func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", id).Delete(&models.Slide{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Set{}, id).Error
	})
}

func (r *Repository) GetByID(id uint) (*models.Set, error) {
	var set models.Set
	err := r.db.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("slides.position asc")
	}).First(&set, id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *Repository) GetByOwner(ownerID uint) ([]models.Set, error) {
	var sets []models.Set
	err := r.db.Where("owner_id = ?", ownerID).Order("updated_at desc").Find(&sets).Error
	return sets, err
}

// Search lists sets whose title matches the query, newest first. An empty
// query lists everything.
func (r *Repository) Search(query string, limit int) ([]models.Set, error) {
	var sets []models.Set
	tx := r.db.Order("updated_at desc").Limit(limit)
	if query != "" {
		tx = tx.Where("title ILIKE ?", "%"+query+"%")
	}
	err := tx.Find(&sets).Error
	return sets, err
}
