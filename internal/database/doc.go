// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Book CRUD, duplicate guard, search, listing
//	├── chapters/        # Chapter CRUD
//	├── favourites/      # Favorite (user, book) pairings
//	├── authors/         # Author and category lookups
//	└── users/           # User records, account deletion
//
// Each sub-package provides a Repository type over *gorm.DB:
//
//	db, err := database.NewDatabase("./booktracker.db")
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.GetByID(123)
//
// Repositories implement the store interfaces declared next to their
// consumers in internal/http.
package database
