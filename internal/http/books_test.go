package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/entities"
)

func TestBooksPage(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	router := newTestRouter(t, env, 0)
	w := doGet(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "book_list.html", w.Body.String())
}

func TestBookDetail_NotFound(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	router := newTestRouter(t, env, 0)
	w := doGet(router, "/books/999")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookDetail_NonNumericID(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	router := newTestRouter(t, env, 0)
	w := doGet(router, "/books/abc")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")

	router := newTestRouter(t, env, alice.ID)
	w := doPostForm(router, "/books/add", url.Values{
		"title":       {"Testowa ksiazka"},
		"description": {"To jest opis testowy"},
		"authors":     {strconv.Itoa(int(author.ID))},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	list, err := env.books.ListByOwner(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Testowa ksiazka", list[0].Title)
}

func TestAddBook_Unauthenticated(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	router := newTestRouter(t, env, 0)
	w := doPostForm(router, "/books/add", url.Values{
		"title":       {"Testowa ksiazka"},
		"description": {"To jest opis testowy"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=/books/add", w.Header().Get("Location"))

	count, err := env.books.CountBooks()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddBook_MissingFields(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	router := newTestRouter(t, env, alice.ID)

	w := doPostForm(router, "/books/add", url.Values{
		"title": {"Testowa ksiazka"},
		// no description, no authors
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "book_form.html", w.Body.String())

	count, err := env.books.CountBooks()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddBook_Duplicate(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	bob := createHTTPTestUser(t, env, "bob")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	// Bob submits the same title and author set; the form comes back
	// with an error and nothing is written
	router := newTestRouter(t, env, bob.ID)
	w := doPostForm(router, "/books/add", url.Values{
		"title":       {"Testowa ksiazka"},
		"description": {"bob's own description"},
		"authors":     {strconv.Itoa(int(author.ID))},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "book_form.html", w.Body.String())

	count, err := env.books.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEditBook_NonOwnerGets404(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	bob := createHTTPTestUser(t, env, "bob")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	book := createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	router := newTestRouter(t, env, bob.ID)
	w := doGet(router, fmt.Sprintf("/books/%d/edit", book.ID))

	// The owner-scoped lookup makes the record invisible to bob
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditBook_Owner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	book := createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	router := newTestRouter(t, env, alice.ID)
	w := doPostForm(router, fmt.Sprintf("/books/%d/edit", book.ID), url.Values{
		"title":       {"Poprawiona ksiazka"},
		"description": {"updated description"},
		"authors":     {strconv.Itoa(int(author.ID))},
	})

	assert.Equal(t, http.StatusFound, w.Code)

	loaded, err := env.books.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poprawiona ksiazka", loaded.Title)
}

func TestDeleteBook_NonOwnerRedirectsSilently(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	bob := createHTTPTestUser(t, env, "bob")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	book := createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	router := newTestRouter(t, env, bob.ID)
	w := doPostForm(router, fmt.Sprintf("/books/%d/delete", book.ID), nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/books/%d", book.ID), w.Header().Get("Location"))

	// Still there
	_, err := env.books.GetByID(book.ID)
	assert.NoError(t, err)
}

func TestDeleteBook_OwnerConfirmThenDelete(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	book := createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})
	require.NoError(t, env.chapters.Create(&entities.Chapter{
		BookID: book.ID, Title: "Wprowadzenie", Content: "tresc",
	}))

	router := newTestRouter(t, env, alice.ID)

	// GET shows the confirmation page, nothing is deleted yet
	w := doGet(router, fmt.Sprintf("/books/%d/delete", book.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "book_confirm_delete.html", w.Body.String())
	_, err := env.books.GetByID(book.ID)
	require.NoError(t, err)

	// POST deletes the book and its chapters
	w = doPostForm(router, fmt.Sprintf("/books/%d/delete", book.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err = env.books.GetByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	remaining, err := env.chapters.ListForBook(book.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSearchBooks(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	router := newTestRouter(t, env, 0)
	w := doGet(router, "/search?q=Testowa")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "book_search.html", w.Body.String())
}

func TestFavorite_AddAndRemove(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	alice := createHTTPTestUser(t, env, "alice")
	bob := createHTTPTestUser(t, env, "bob")
	author := createHTTPTestAuthor(t, env, "Jan Kowalski")
	book := createHTTPTestBook(t, env, alice, "Testowa ksiazka", []uint{author.ID})

	// Favoriting does not require ownership
	router := newTestRouter(t, env, bob.ID)

	w := doPostForm(router, fmt.Sprintf("/books/%d/favorite", book.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	isFav, err := env.favourites.IsFavorite(bob.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	w = doPostForm(router, fmt.Sprintf("/books/%d/unfavorite", book.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	isFav, err = env.favourites.IsFavorite(bob.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}
