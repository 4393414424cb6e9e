package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mkraev/filmoteka/internal/config"
	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Film{},
		&models.Genre{},
		&models.MpaRating{},
		&models.FilmGenre{},
		&models.FilmLike{},
		&models.Friendship{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed")
	return nil
}

// SeedReferenceData inserts the genre and MPA catalogs. Existing rows are
// left alone so re-running on startup is safe.
func SeedReferenceData(db *gorm.DB) error {
	genres := models.DefaultGenres()
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&genres).Error
	if err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	ratings := models.DefaultMpaRatings()
	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ratings).Error
	if err != nil {
		return fmt.Errorf("failed to seed mpa ratings: %w", err)
	}

	logger.Info("Reference data seeded", "genres", len(genres), "mpa_ratings", len(ratings))
	return nil
}
