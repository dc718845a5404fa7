// Package authors provides database operations for authors and
// categories. Authors have a user-facing add flow; categories are
// managed through admin tooling only.
package authors

import (
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// Repository handles author and category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAuthor(name string) (*entities.Author, error) {
	author := &entities.Author{Name: name}
	if err := r.db.Create(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}

// ListAuthors returns all authors ordered by name, for the book form's
// selection widget.
func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

// GetAuthorsByIDs resolves a selection of author ids. Fewer rows than
// ids means the selection referenced a nonexistent author; the form
// layer treats that as a validation failure.
func (r *Repository) GetAuthorsByIDs(ids []uint) ([]entities.Author, error) {
	var authors []entities.Author
	if len(ids) == 0 {
		return authors, nil
	}
	err := r.db.Find(&authors, ids).Error
	return authors, err
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetCategoriesByIDs resolves a selection of category ids.
func (r *Repository) GetCategoriesByIDs(ids []uint) ([]entities.Category, error) {
	var categories []entities.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.Find(&categories, ids).Error
	return categories, err
}

func (r *Repository) CountAuthors() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountCategories() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Category{}).Count(&count).Error
	return count, err
}
