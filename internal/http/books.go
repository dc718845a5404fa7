package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/catalog"
	"github.com/pkowalczyk/booktracker/internal/database/books"
	"github.com/pkowalczyk/booktracker/internal/entities"
)

// BookStore defines the database operations the book pages need.
// Implemented by database/books.Repository.
type BookStore interface {
	Create(book *entities.Book, authorIDs, categoryIDs []uint) error
	Update(book *entities.Book, authorIDs, categoryIDs []uint) error
	GetByID(id uint) (*entities.Book, error)
	GetByIDForOwner(id, ownerID uint) (*entities.Book, error)
	Delete(id uint) error
	ListAll() ([]entities.Book, error)
	ListByOwner(ownerID uint) ([]entities.Book, error)
	Search(query string) ([]entities.Book, error)
}

// AuthorStore supplies the selection widgets of the book form.
// Implemented by database/authors.Repository.
type AuthorStore interface {
	CreateAuthor(name string) (*entities.Author, error)
	ListAuthors() ([]entities.Author, error)
	GetAuthorsByIDs(ids []uint) ([]entities.Author, error)
	ListCategories() ([]entities.Category, error)
	GetCategoriesByIDs(ids []uint) ([]entities.Category, error)
}

// FavoriteChecker is the slice of the favorites store the detail page
// needs.
type FavoriteChecker interface {
	IsFavorite(userID, bookID uint) (bool, error)
}

// bookForm carries submitted values and validation errors back into
// the form template.
type bookForm struct {
	Title       string
	Description string
	AuthorIDs   []uint
	CategoryIDs []uint
	FieldErrors map[string]string
	FormError   string // non-field error, e.g. the duplicate guard
}

type BooksController struct {
	store     BookStore
	authors   AuthorStore
	favorites FavoriteChecker
	covers    *CoverStorage
	sanitizer *bluemonday.Policy
}

func NewBooksController(store BookStore, authors AuthorStore, favorites FavoriteChecker, covers *CoverStorage) *BooksController {
	return &BooksController{
		store:     store,
		authors:   authors,
		favorites: favorites,
		covers:    covers,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// BooksPage renders the catalog listing. Authenticated users can pass
// ?mine=true to see only their own books, newest first; everybody else
// gets the full catalog ordered by title.
// GET /
func (bc *BooksController) BooksPage(c *gin.Context) {
	actorID := GetUserID(c)
	showMine := actorID != 0 && c.Query("mine") == "true"

	var (
		list []entities.Book
		err  error
	)
	if showMine {
		list, err = bc.store.ListByOwner(actorID)
	} else {
		list, err = bc.store.ListAll()
	}
	if err != nil {
		renderInternalError(c, err, "list books")
		return
	}

	c.HTML(http.StatusOK, "book_list.html", templateData(c, gin.H{
		"Title":    "Books",
		"Books":    list,
		"ShowMine": showMine,
	}))
}

// BookDetail renders a book with its chapters and, for logged-in
// users, the favorite status.
// GET /books/:id
func (bc *BooksController) BookDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return
		}
		renderInternalError(c, err, "book detail")
		return
	}

	actorID := GetUserID(c)
	isFavorite := false
	if actorID != 0 {
		isFavorite, err = bc.favorites.IsFavorite(actorID, book.ID)
		if err != nil {
			renderInternalError(c, err, "favorite status")
			return
		}
	}

	c.HTML(http.StatusOK, "book_detail.html", templateData(c, gin.H{
		"Title":      book.Title,
		"Book":       book,
		"Chapters":   book.Chapters,
		"IsFavorite": isFavorite,
		"CanMutate":  catalog.CanMutateBook(actorID, book),
	}))
}

// AddBookPage renders the empty creation form.
// GET /books/add
func (bc *BooksController) AddBookPage(c *gin.Context) {
	bc.renderBookForm(c, http.StatusOK, bookForm{}, false)
}

// AddBook validates and persists a new book. The duplicate guard runs
// before anything is written; on a hit the form is re-rendered with a
// non-field error and the candidate is not persisted. The acting user
// becomes the owner.
// POST /books/add
func (bc *BooksController) AddBook(c *gin.Context) {
	form := bc.bindBookForm(c)
	if len(form.FieldErrors) > 0 {
		bc.renderBookForm(c, http.StatusBadRequest, form, false)
		return
	}

	coverPath, err := bc.saveCover(c)
	if err != nil {
		renderInternalError(c, err, "save cover")
		return
	}

	actorID := GetUserID(c)
	book := &entities.Book{
		Title:       form.Title,
		Description: bc.sanitizer.Sanitize(form.Description),
		CoverPath:   coverPath,
		OwnerID:     &actorID,
	}

	if err := bc.store.Create(book, form.AuthorIDs, form.CategoryIDs); err != nil {
		if errors.Is(err, books.ErrDuplicateBook) {
			form.FormError = "This book already exists in the library."
			bc.renderBookForm(c, http.StatusBadRequest, form, false)
			return
		}
		renderInternalError(c, err, "create book")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditBookPage renders the edit form. The lookup is owner-scoped: a
// non-owner gets a 404, never a "forbidden".
// GET /books/:id/edit
func (bc *BooksController) EditBookPage(c *gin.Context) {
	book, ok := bc.lookupOwnedBook(c)
	if !ok {
		return
	}

	form := bookForm{
		Title:       book.Title,
		Description: book.Description,
	}
	for _, a := range book.Authors {
		form.AuthorIDs = append(form.AuthorIDs, a.ID)
	}
	for _, cat := range book.Categories {
		form.CategoryIDs = append(form.CategoryIDs, cat.ID)
	}
	bc.renderBookForm(c, http.StatusOK, form, true)
}

// EditBook applies the submitted changes to an owned book. Ownership
// itself is never transferable here.
// POST /books/:id/edit
func (bc *BooksController) EditBook(c *gin.Context) {
	book, ok := bc.lookupOwnedBook(c)
	if !ok {
		return
	}

	form := bc.bindBookForm(c)
	if len(form.FieldErrors) > 0 {
		bc.renderBookForm(c, http.StatusBadRequest, form, true)
		return
	}

	coverPath, err := bc.saveCover(c)
	if err != nil {
		renderInternalError(c, err, "save cover")
		return
	}

	book.Title = form.Title
	book.Description = bc.sanitizer.Sanitize(form.Description)
	book.CoverPath = coverPath

	if err := bc.store.Update(book, form.AuthorIDs, form.CategoryIDs); err != nil {
		renderInternalError(c, err, "update book")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// DeleteBook handles both the confirmation page and the actual delete.
// The lookup is by id alone; ownership is checked afterwards and a
// non-owner is silently sent back to the detail page.
// GET|POST /books/:id/delete
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return
		}
		renderInternalError(c, err, "delete book lookup")
		return
	}

	if !catalog.CanMutateBook(GetUserID(c), book) {
		c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
		return
	}

	if c.Request.Method != http.MethodPost {
		c.HTML(http.StatusOK, "book_confirm_delete.html", templateData(c, gin.H{
			"Title": "Delete book",
			"Book":  book,
		}))
		return
	}

	if err := bc.store.Delete(book.ID); err != nil {
		renderInternalError(c, err, "delete book")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// SearchBooks renders the search page. An empty query yields an empty
// result list, not the whole catalog.
// GET /search
func (bc *BooksController) SearchBooks(c *gin.Context) {
	query := c.Query("q")

	results, err := bc.store.Search(query)
	if err != nil {
		renderInternalError(c, err, "search books")
		return
	}

	c.HTML(http.StatusOK, "book_search.html", templateData(c, gin.H{
		"Title":   "Search",
		"Query":   query,
		"Results": results,
	}))
}

// lookupOwnedBook fetches the book through the owner-scoped query and
// renders not-found for everything the actor must not see.
func (bc *BooksController) lookupOwnedBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	book, err := bc.store.GetByIDForOwner(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return nil, false
		}
		renderInternalError(c, err, "edit book lookup")
		return nil, false
	}
	return book, true
}

// bindBookForm reads and validates the submitted form fields. Title,
// description and at least one existing author are required.
func (bc *BooksController) bindBookForm(c *gin.Context) bookForm {
	form := bookForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		AuthorIDs:   parseIDList(c.PostFormArray("authors")),
		CategoryIDs: parseIDList(c.PostFormArray("categories")),
		FieldErrors: map[string]string{},
	}

	if form.Title == "" {
		form.FieldErrors["title"] = "This field is required."
	}
	if form.Description == "" {
		form.FieldErrors["description"] = "This field is required."
	}
	if len(form.AuthorIDs) == 0 {
		form.FieldErrors["authors"] = "Select at least one author."
	} else if found, err := bc.authors.GetAuthorsByIDs(form.AuthorIDs); err != nil || len(found) != len(form.AuthorIDs) {
		form.FieldErrors["authors"] = "Select a valid choice."
	}
	if len(form.CategoryIDs) > 0 {
		if found, err := bc.authors.GetCategoriesByIDs(form.CategoryIDs); err != nil || len(found) != len(form.CategoryIDs) {
			form.FieldErrors["categories"] = "Select a valid choice."
		}
	}

	return form
}

// saveCover stores an uploaded cover, if any. A missing file is fine.
func (bc *BooksController) saveCover(c *gin.Context) (string, error) {
	fh, err := c.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return bc.covers.Save(fh)
}

func (bc *BooksController) renderBookForm(c *gin.Context, status int, form bookForm, editing bool) {
	allAuthors, err := bc.authors.ListAuthors()
	if err != nil {
		renderInternalError(c, err, "list authors")
		return
	}
	allCategories, err := bc.authors.ListCategories()
	if err != nil {
		renderInternalError(c, err, "list categories")
		return
	}

	title := "Add book"
	if editing {
		title = "Edit book"
	}
	c.HTML(status, "book_form.html", templateData(c, gin.H{
		"Title":      title,
		"Form":       form,
		"Editing":    editing,
		"Authors":    allAuthors,
		"Categories": allCategories,
	}))
}
