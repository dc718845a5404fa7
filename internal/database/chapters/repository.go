// Package chapters provides database operations for book chapters.
package chapters

import (
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// Repository handles all chapter database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new chapters repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(chapter *entities.Chapter) error {
	return r.db.Create(chapter).Error
}

// GetByID returns a chapter with its book preloaded. The book (and its
// owner reference) is what the ownership policy is evaluated against.
func (r *Repository) GetByID(id uint) (*entities.Chapter, error) {
	var chapter entities.Chapter
	err := r.db.Preload("Book").First(&chapter, id).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *Repository) Update(chapter *entities.Chapter) error {
	return r.db.Model(&entities.Chapter{}).
		Where("id = ?", chapter.ID).
		Updates(map[string]any{
			"title":   chapter.Title,
			"content": chapter.Content,
		}).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Chapter{}, id).Error
}

// Count returns the number of chapters, used by the admin overview.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Chapter{}).Count(&count).Error
	return count, err
}

// ListForBook returns a book's chapters in insertion order.
func (r *Repository) ListForBook(bookID uint) ([]entities.Chapter, error) {
	var chapters []entities.Chapter
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&chapters).Error
	return chapters, err
}
