package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/auth"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/config"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/db"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/handlers"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/media"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/middleware"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/services"
	"github.com/shri1525/Cloudapplication-instagram-clone/internal/storage/postgres"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database and apply migrations
	pool, err := db.NewPool(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Database connection established")

	if err := db.RunMigrations(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Identity provider token validator
	validator, err := auth.NewValidatorFromFile(cfg.Auth.PublicKeyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load identity provider key")
	}

	// Blob storage
	uploader, err := media.NewS3Uploader(context.Background(), &cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create uploader")
	}

	// Initialize storage
	userStorage := postgres.NewUserStorage(pool)
	postStorage := postgres.NewPostStorage(pool)

	// Initialize services
	userService := services.NewUserService(userStorage)
	socialService := services.NewSocialService(userStorage)
	postService := services.NewPostService(postStorage, userStorage)
	commentService := services.NewCommentService(postStorage)

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(userService, postService)
	postHandler := handlers.NewPostHandler(userService, postService, uploader)
	socialHandler := handlers.NewSocialHandler(socialService)
	commentHandler := handlers.NewCommentHandler(userService, commentService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Optional(validator))
		r.Get("/", pageHandler.Home)
		r.Get("/get-comments/{post_id}", commentHandler.GetComments)
	})

	// Page routes: unauthenticated requests are redirected home
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePage(validator))
		r.Post("/register-user", pageHandler.RegisterUser)
		r.Get("/profile/{username}", pageHandler.Profile)
		r.Get("/search", pageHandler.Search)
		r.Get("/create-post", postHandler.CreatePostForm)
		r.Post("/create-post", postHandler.CreatePost)
		r.Get("/followers/{username}", pageHandler.Followers)
		r.Get("/following/{username}", pageHandler.Following)
	})

	// API routes: unauthenticated requests get a 401 JSON body
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPI(validator))
		r.Post("/follow/{user_id}", socialHandler.Follow)
		r.Post("/add-comment/{post_id}", commentHandler.AddComment)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
