// Package books provides database operations for catalog books.
//
// Besides plain CRUD this package owns the two pieces of behavior the
// rest of the application leans on:
//
//   - the duplicate guard: a new book is rejected when any existing
//     book, regardless of owner, has exactly the same set of authors;
//   - the catalog search: a case-insensitive substring match across
//     title, description, author names, chapter titles and chapter
//     contents, deduplicated per book.
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// ErrDuplicateBook is returned by Create when another book with an
// identical author set already exists anywhere in the catalog.
var ErrDuplicateBook = errors.New("a book with the same set of authors already exists")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book together with its author and category
// associations in one transaction. The duplicate guard runs inside the
// transaction; on a hit nothing is written and ErrDuplicateBook is
// returned. Title/description validation happens at the form layer.
func (r *Repository) Create(book *entities.Book, authorIDs, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		duplicate, err := hasBookWithAuthorSet(tx, authorIDs)
		if err != nil {
			return err
		}
		if duplicate {
			return ErrDuplicateBook
		}

		if err := tx.Omit("Authors", "Categories", "Chapters").Create(book).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, book, authorIDs, categoryIDs)
	})
}

// Update replaces the mutable fields and associations of an existing
// book. Ownership is deliberately not touched: books cannot change
// hands through an edit.
func (r *Repository) Update(book *entities.Book, authorIDs, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"title":       book.Title,
			"description": book.Description,
		}
		if book.CoverPath != "" {
			updates["cover_path"] = book.CoverPath
		}
		if err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(updates).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, book, authorIDs, categoryIDs)
	})
}

// GetByID returns a book with its authors, categories and chapters.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.id ASC")
		}).
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDForOwner is the owner-scoped lookup backing the edit flow.
// A book that exists but belongs to somebody else is reported as not
// found, so non-owners cannot even see the edit form.
func (r *Repository) GetByIDForOwner(id, ownerID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes a book and everything hanging off it: chapters,
// favorite entries and the many-to-many join rows. All in one
// transaction so a failure leaves the catalog intact.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.FavoriteBook{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// ListAll returns the whole catalog ordered by title ascending.
func (r *Repository) ListAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// ListByOwner returns the actor's own books, most recently created
// first.
func (r *Repository) ListByOwner(ownerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Where("owner_id = ?", ownerID).
		Order("books.id DESC").
		Find(&books).Error
	return books, err
}

// Search matches the query as a case-insensitive substring against
// title, description, author names, chapter titles and chapter
// contents. An empty query yields an empty result, not the whole
// catalog. Each matching book appears once, in id order; there is no
// relevance ranking.
func (r *Repository) Search(query string) ([]entities.Book, error) {
	if query == "" {
		return []entities.Book{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	matching := r.db.Table("books").
		Select("DISTINCT books.id").
		Joins("LEFT JOIN book_authors ON book_authors.book_id = books.id").
		Joins("LEFT JOIN authors ON authors.id = book_authors.author_id").
		Joins("LEFT JOIN chapters ON chapters.book_id = books.id").
		Where(`LOWER(books.title) LIKE ?
			OR LOWER(books.description) LIKE ?
			OR LOWER(authors.name) LIKE ?
			OR LOWER(chapters.title) LIKE ?
			OR LOWER(chapters.content) LIKE ?`,
			pattern, pattern, pattern, pattern, pattern)

	var books []entities.Book
	err := r.db.Preload("Authors").Preload("Categories").
		Where("books.id IN (?)", matching).
		Order("books.id ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the total number of books, used by the admin
// overview.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// hasBookWithAuthorSet scans every book in the catalog and reports
// whether one of them has exactly the candidate author set. Order is
// irrelevant and subset/superset matches do not count. The scan is
// global across owners and linear in the catalog size, which is fine
// at this application's scale.
func hasBookWithAuthorSet(tx *gorm.DB, authorIDs []uint) (bool, error) {
	candidate := make(map[uint]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		candidate[id] = struct{}{}
	}

	var existing []entities.Book
	if err := tx.Preload("Authors").Find(&existing).Error; err != nil {
		return false, err
	}

	for _, book := range existing {
		if len(book.Authors) != len(candidate) {
			continue
		}
		match := true
		for _, author := range book.Authors {
			if _, ok := candidate[author.ID]; !ok {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func replaceAssociations(tx *gorm.DB, book *entities.Book, authorIDs, categoryIDs []uint) error {
	var authors []entities.Author
	if len(authorIDs) > 0 {
		if err := tx.Find(&authors, authorIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(book).Association("Authors").Replace(authors); err != nil {
		return err
	}

	var categories []entities.Category
	if len(categoryIDs) > 0 {
		if err := tx.Find(&categories, categoryIDs).Error; err != nil {
			return err
		}
	}
	return tx.Model(book).Association("Categories").Replace(categories)
}
