package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/pkowalczyk/booktracker/internal/auth"
)

// RouterConfig carries every dependency the router needs. A single
// struct keeps NewRouter's signature stable as controllers grow.
type RouterConfig struct {
	Version string

	TemplatesPath string
	StaticPath    string

	CSRFSecret    []byte
	SecureCookies bool

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware

	Database Pinger

	BookStore    BookStore
	ChapterStore ChapterStore
	AuthorStore  AuthorStore
	Favourites   FavouritesStore
	CoverStorage *CoverStorage

	AdminCounts map[string]CountFunc
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before the session middleware so the session
	// context survives CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	funcMap := template.FuncMap{
		"containsID": func(ids []uint, id uint) bool {
			for _, v := range ids {
				if v == id {
					return true
				}
			}
			return false
		},
	}

	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Static("/static", cfg.StaticPath)

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	books := NewBooksController(cfg.BookStore, cfg.AuthorStore, cfg.Favourites, cfg.CoverStorage)
	chapters := NewChaptersController(cfg.ChapterStore, cfg.BookStore)
	favourites := NewFavouritesController(cfg.Favourites, cfg.BookStore)
	authors := NewAuthorsController(cfg.AuthorStore)
	profile := NewProfileController(cfg.Favourites, cfg.AuthService, cfg.SessionManager)
	covers := NewCoversController(cfg.CoverStorage)
	health := NewHealthController(cfg.Database, cfg.Version)
	adminController := NewAdminController(cfg.AdminCounts)

	requireAuth := cfg.AuthMiddleware.RequireAuth()

	// Public catalog pages
	router.GET("/", books.BooksPage)
	router.GET("/books/:id", books.BookDetail)
	router.GET("/search", books.SearchBooks)
	router.GET("/covers/:name", covers.GetCover)

	// Book mutations
	router.GET("/books/add", requireAuth, books.AddBookPage)
	router.POST("/books/add", requireAuth, books.AddBook)
	router.GET("/books/:id/edit", requireAuth, books.EditBookPage)
	router.POST("/books/:id/edit", requireAuth, books.EditBook)
	router.GET("/books/:id/delete", requireAuth, books.DeleteBook)
	router.POST("/books/:id/delete", requireAuth, books.DeleteBook)

	// Chapter mutations
	router.GET("/books/:id/chapters/add", requireAuth, chapters.AddChapterPage)
	router.POST("/books/:id/chapters/add", requireAuth, chapters.AddChapter)
	router.GET("/chapters/:id/edit", requireAuth, chapters.EditChapterPage)
	router.POST("/chapters/:id/edit", requireAuth, chapters.EditChapter)
	router.GET("/chapters/:id/delete", requireAuth, chapters.DeleteChapter)
	router.POST("/chapters/:id/delete", requireAuth, chapters.DeleteChapter)

	// Favorites
	router.POST("/books/:id/favorite", requireAuth, favourites.AddFavorite)
	router.POST("/books/:id/unfavorite", requireAuth, favourites.RemoveFavorite)

	// Authors popup
	router.GET("/authors/add", requireAuth, authors.AddAuthorPage)
	router.POST("/authors/add", requireAuth, authors.AddAuthor)

	// Profile
	router.GET("/profile", requireAuth, profile.ProfilePage)
	router.POST("/profile/password", requireAuth, profile.ChangePassword)
	router.POST("/profile/delete", requireAuth, profile.DeleteAccount)

	// Operational endpoints
	router.GET("/health", health.Status)
	router.GET("/admin", requireAuth, adminController.Overview)

	return router
}
