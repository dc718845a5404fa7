package http

import (
	"errors"
	"fmt"

	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

// FavouritesStore defines database operations for the favorites list.
// Implemented by database/favourites.Repository.
type FavouritesStore interface {
	Add(userID, bookID uint) error
	Remove(userID, bookID uint) error
	IsFavorite(userID, bookID uint) (bool, error)
	ListBooks(userID uint) ([]entities.Book, error)
}

// FavouritesController handles bookmarking. Users only ever act on
// their own favorites; both operations are idempotent.
type FavouritesController struct {
	store FavouritesStore
	books BookStore
}

func NewFavouritesController(store FavouritesStore, books BookStore) *FavouritesController {
	return &FavouritesController{store: store, books: books}
}

// AddFavorite bookmarks a book for the acting user. Repeated clicks
// are no-ops.
// POST /books/:id/favorite
func (fc *FavouritesController) AddFavorite(c *gin.Context) {
	book, ok := fc.lookupBook(c)
	if !ok {
		return
	}

	if err := fc.store.Add(GetUserID(c), book.ID); err != nil {
		renderInternalError(c, err, "add favorite")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
}

// RemoveFavorite drops the bookmark; removing an absent one is a
// no-op.
// POST /books/:id/unfavorite
func (fc *FavouritesController) RemoveFavorite(c *gin.Context) {
	book, ok := fc.lookupBook(c)
	if !ok {
		return
	}

	if err := fc.store.Remove(GetUserID(c), book.ID); err != nil {
		renderInternalError(c, err, "remove favorite")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
}

func (fc *FavouritesController) lookupBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	book, err := fc.books.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return nil, false
		}
		renderInternalError(c, err, "favorite book lookup")
		return nil, false
	}
	return book, true
}
