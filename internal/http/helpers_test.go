package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pkowalczyk/booktracker/internal/auth"
	"github.com/pkowalczyk/booktracker/internal/database/authors"
	"github.com/pkowalczyk/booktracker/internal/database/books"
	"github.com/pkowalczyk/booktracker/internal/database/chapters"
	"github.com/pkowalczyk/booktracker/internal/database/favourites"
	"github.com/pkowalczyk/booktracker/internal/entities"
)

type testEnv struct {
	db         *gorm.DB
	books      *books.Repository
	chapters   *chapters.Repository
	authors    *authors.Repository
	favourites *favourites.Repository
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	dbPath := "./test_http_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Category{},
		&entities.Book{},
		&entities.Chapter{},
		&entities.FavoriteBook{},
	)
	require.NoError(t, err)

	env := &testEnv{
		db:         db,
		books:      books.NewRepository(db),
		chapters:   chapters.NewRepository(db),
		authors:    authors.NewRepository(db),
		favourites: favourites.NewRepository(db),
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return env, cleanup
}

// stubTemplates renders every page as its template name so handler
// tests can assert on status codes and redirects without the real
// template tree.
func stubTemplates(t *testing.T) *template.Template {
	names := []string{
		"book_list.html", "book_detail.html", "book_form.html",
		"book_confirm_delete.html", "book_search.html",
		"chapter_form.html", "chapter_confirm_delete.html",
		"access_denied.html", "add_author.html",
		"user_profile.html", "password_change_done.html",
		"error.html", "not_found.html", "admin_overview.html",
	}
	tmpl := template.New("")
	for _, name := range names {
		_, err := tmpl.New(name).Parse(name)
		require.NoError(t, err)
	}
	return tmpl
}

// newTestRouter wires the catalog routes with a fixed acting user.
// actorID 0 means anonymous.
func newTestRouter(t *testing.T, env *testEnv, actorID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(stubTemplates(t))

	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, actorID)
		c.Next()
	})

	coverDir := t.TempDir()
	coverStorage, err := NewCoverStorage(coverDir)
	require.NoError(t, err)

	booksController := NewBooksController(env.books, env.authors, env.favourites, coverStorage)
	chaptersController := NewChaptersController(env.chapters, env.books)
	favouritesController := NewFavouritesController(env.favourites, env.books)

	requireAuth := auth.NewMiddleware(nil, nil).RequireAuth()

	router.GET("/", booksController.BooksPage)
	router.GET("/books/:id", booksController.BookDetail)
	router.GET("/search", booksController.SearchBooks)
	router.GET("/books/add", requireAuth, booksController.AddBookPage)
	router.POST("/books/add", requireAuth, booksController.AddBook)
	router.GET("/books/:id/edit", requireAuth, booksController.EditBookPage)
	router.POST("/books/:id/edit", requireAuth, booksController.EditBook)
	router.GET("/books/:id/delete", requireAuth, booksController.DeleteBook)
	router.POST("/books/:id/delete", requireAuth, booksController.DeleteBook)
	router.GET("/books/:id/chapters/add", requireAuth, chaptersController.AddChapterPage)
	router.POST("/books/:id/chapters/add", requireAuth, chaptersController.AddChapter)
	router.GET("/chapters/:id/edit", requireAuth, chaptersController.EditChapterPage)
	router.POST("/chapters/:id/edit", requireAuth, chaptersController.EditChapter)
	router.GET("/chapters/:id/delete", requireAuth, chaptersController.DeleteChapter)
	router.POST("/chapters/:id/delete", requireAuth, chaptersController.DeleteChapter)
	router.POST("/books/:id/favorite", requireAuth, favouritesController.AddFavorite)
	router.POST("/books/:id/unfavorite", requireAuth, favouritesController.RemoveFavorite)

	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func doPostForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func createHTTPTestUser(t *testing.T, env *testEnv, username string) *entities.User {
	user := &entities.User{Username: username, PasswordHash: "x"}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func createHTTPTestAuthor(t *testing.T, env *testEnv, name string) *entities.Author {
	author, err := env.authors.CreateAuthor(name)
	require.NoError(t, err)
	return author
}

func createHTTPTestBook(t *testing.T, env *testEnv, owner *entities.User, title string, authorIDs []uint) *entities.Book {
	book := &entities.Book{
		Title:       title,
		Description: "description of " + title,
		OwnerID:     &owner.ID,
	}
	require.NoError(t, env.books.Create(book, authorIDs, nil))
	return book
}
