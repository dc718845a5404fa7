package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pkowalczyk/booktracker/internal/auth"
	"github.com/pkowalczyk/booktracker/internal/config"
	"github.com/pkowalczyk/booktracker/internal/database"
	"github.com/pkowalczyk/booktracker/internal/database/authors"
	"github.com/pkowalczyk/booktracker/internal/database/books"
	"github.com/pkowalczyk/booktracker/internal/database/chapters"
	"github.com/pkowalczyk/booktracker/internal/database/favourites"
	"github.com/pkowalczyk/booktracker/internal/database/users"
	http_controllers "github.com/pkowalczyk/booktracker/internal/http"
)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the database, repositories, auth stack and router together
// and serves until interrupted.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Booktracker v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	chapterRepo := chapters.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	favouriteRepo := favourites.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	authService := auth.NewService(userRepo, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	coverStorage, err := http_controllers.NewCoverStorage(cfg.Uploads.CoversDir)
	if err != nil {
		log.Fatalf("Failed to initialize cover storage: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Version:        version,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		Database:       db,
		BookStore:      bookRepo,
		ChapterStore:   chapterRepo,
		AuthorStore:    authorRepo,
		Favourites:     favouriteRepo,
		CoverStorage:   coverStorage,
		AdminCounts: map[string]http_controllers.CountFunc{
			"Book":         bookRepo.CountBooks,
			"Author":       authorRepo.CountAuthors,
			"Category":     authorRepo.CountCategories,
			"Chapter":      chapterRepo.Count,
			"FavoriteBook": favouriteRepo.Count,
		},
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
