// Package users provides database operations for user records.
//
// Credential handling (hashing, session issuing) lives in
// internal/auth; this package only persists and removes rows.
package users

import (
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&entities.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// Delete removes a user. The user's books survive with their owner
// reference cleared; favorites are the user's own bookmarks and go
// away with the account. One transaction, so a half-deleted account
// cannot occur.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{}).
			Where("owner_id = ?", id).
			Update("owner_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.FavoriteBook{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.User{}, id).Error
	})
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
