// Package favourites provides database operations for the favorites
// list: idempotent add/remove of (user, book) pairings and the
// title-ordered listing shown on the profile page.
package favourites

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add bookmarks a book for a user. Adding an existing pairing is a
// no-op: the unique (user_id, book_id) index guarantees at most one
// row and the lookup-first pattern keeps repeated clicks quiet.
func (r *Repository) Add(userID, bookID uint) error {
	var existing entities.FavoriteBook
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&entities.FavoriteBook{UserID: userID, BookID: bookID}).Error
}

// Remove drops the pairing if present; removing an absent pairing is
// a no-op.
func (r *Repository) Remove(userID, bookID uint) error {
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.FavoriteBook{}).Error
}

// IsFavorite reports whether the user has bookmarked the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.FavoriteBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// ListBooks returns the user's favorite books sorted by title
// ascending.
func (r *Repository) ListBooks(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Joins("JOIN favorite_books ON favorite_books.book_id = books.id").
		Where("favorite_books.user_id = ?", userID).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// Count returns the number of favorite pairings, used by the admin
// overview.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.FavoriteBook{}).Count(&count).Error
	return count, err
}
