package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/movielist/movielist-go/internal/config"
	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/handler"
	"github.com/movielist/movielist-go/internal/middleware"
	"github.com/movielist/movielist-go/internal/repository"
	"github.com/movielist/movielist-go/internal/service"
	"github.com/movielist/movielist-go/internal/tmdb"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	codec, err := crypto.NewCodec(crypto.KeyMaterial{
		AccessPrivateKey:  cfg.AccessTokenPrivateKey,
		AccessPublicKey:   cfg.AccessTokenPublicKey,
		RefreshPrivateKey: cfg.RefreshTokenPrivateKey,
		RefreshPublicKey:  cfg.RefreshTokenPublicKey,
	})
	if err != nil {
		slog.Error("loading token signing keys failed", "error", err)
		os.Exit(1)
	}

	client, err := repository.NewDB(cfg.MongoURI)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	listRepo := repository.NewListRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Warn("creating user indexes failed", "error", err)
	}
	if err := movieRepo.EnsureIndexes(indexCtx); err != nil {
		slog.Warn("creating movie indexes failed", "error", err)
	}
	cancelIndex()

	cache := repository.NewSearchCache(repository.NewRedis(cfg.RedisAddr), 10*time.Minute)
	catalog := tmdb.New(cfg.MovieDBAPIKey, cfg.MovieDBBaseURL, cfg.MovieDBImageBaseURL)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, sessionRepo, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	movieService := service.NewMovieService(catalog, cache)
	listService := service.NewListService(listRepo, userRepo, movieRepo, catalog)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService)
	listHandler := handler.NewListHandler(listService)
	imageHandler := handler.NewImageHandler(catalog)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Identity(codec))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/users", userHandler.HandleRegister)
		r.Post("/api/sessions", authHandler.HandleCreateSession)
	})

	r.Post("/api/sessions/refresh", authHandler.HandleRefresh)

	r.Get("/api/movies", movieHandler.HandleSearch)
	r.Get("/api/image/{path}", imageHandler.HandleImage)

	r.Get("/api/user-lists", listHandler.HandleAll)
	r.Get("/api/user-lists/{id}", listHandler.HandleByUser)
	r.Get("/api/user-lists/list/{id}", listHandler.HandleByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/api/users/me", userHandler.HandleMe)
		r.Get("/api/user-lists/current/me", listHandler.HandleMine)
		r.Post("/api/user-lists", listHandler.HandleCreate)
		r.Put("/api/user-lists/{id}", listHandler.HandleUpdate)
		r.Delete("/api/user-lists/{id}", listHandler.HandleDelete)
		r.Post("/api/user-lists/{id}/movies", listHandler.HandleAddMovie)
		r.Delete("/api/user-lists/{id}/movies", listHandler.HandleRemoveMovie)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}

	if err := client.Disconnect(ctx); err != nil {
		slog.Error("database disconnect failed", "error", err)
	}

	slog.Info("server stopped")
}
