package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkraev/filmoteka/internal/cache"
	"github.com/mkraev/filmoteka/internal/config"
	"github.com/mkraev/filmoteka/internal/database"
	"github.com/mkraev/filmoteka/internal/handlers"
	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/services"
	"github.com/mkraev/filmoteka/internal/storage"
	"github.com/mkraev/filmoteka/internal/storage/memory"
	"github.com/mkraev/filmoteka/internal/storage/postgres"
	"github.com/mkraev/filmoteka/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	logger.Info("Starting filmoteka server...", "env", cfg.AppEnv, "backend", cfg.StorageBackend)

	stores, err := buildStores(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}

	// Popular-films cache is optional; the services run without it. The
	// interface must stay nil unless a connection succeeded.
	var popularCache services.PopularCache
	if cfg.RedisAddr != "" {
		filmCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL())
		if err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}
		defer filmCache.Close()
		popularCache = filmCache
	}

	userService := services.NewUserService(stores.Users, stores.Films, popularCache)
	filmService := services.NewFilmService(stores.Films, stores.Users, popularCache, cfg.PopularDefaultCount)

	router := handlers.NewRouter(cfg.AppEnv, stores, userService, filmService)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

// buildStores picks the storage backend from configuration. Both backends
// satisfy the same capability interfaces.
func buildStores(cfg *config.Config) (storage.Stores, error) {
	switch cfg.StorageBackend {
	case storage.BackendPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return storage.Stores{}, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return storage.Stores{}, err
		}
		if err := database.SeedReferenceData(db); err != nil {
			return storage.Stores{}, err
		}

		genres := postgres.NewGenreStorage(db)
		mpa := postgres.NewMpaStorage(db)
		return storage.Stores{
			Users:  postgres.NewUserStorage(db),
			Films:  postgres.NewFilmStorage(db, genres, mpa),
			Genres: genres,
			Mpa:    mpa,
		}, nil

	default:
		genres := memory.NewGenreStorage(models.DefaultGenres())
		mpa := memory.NewMpaStorage(models.DefaultMpaRatings())
		return storage.Stores{
			Users:  memory.NewUserStorage(),
			Films:  memory.NewFilmStorage(genres, mpa),
			Genres: genres,
			Mpa:    mpa,
		}, nil
	}
}
