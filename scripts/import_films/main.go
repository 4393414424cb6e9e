// Bulk-imports a film catalog from an xlsx workbook. Expected columns:
// name | description | release date (YYYY-MM-DD) | duration | mpa id | genre ids (comma-separated)
//
// Usage: go run scripts/import_films/main.go catalog.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"

	"github.com/mkraev/filmoteka/internal/config"
	"github.com/mkraev/filmoteka/internal/database"
	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/storage/postgres"
	"github.com/mkraev/filmoteka/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_films <catalog.xlsx>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	logger.Init(cfg.LogLevel, "")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedReferenceData(db); err != nil {
		log.Fatal(err)
	}

	genres := postgres.NewGenreStorage(db)
	mpa := postgres.NewMpaStorage(db)
	films := postgres.NewFilmStorage(db, genres, mpa)

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	totalImported := 0
	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 4 { // Skip header or invalid rows
				continue
			}

			film, err := parseRow(row)
			if err != nil {
				fmt.Printf("Skipping row %d: %v\n", i+1, err)
				continue
			}

			if err := films.Create(film); err != nil {
				fmt.Printf("Failed to import %q: %v\n", film.Name, err)
				continue
			}
			totalImported++
		}
	}

	fmt.Printf("Done. Imported %d films.\n", totalImported)
}

func parseRow(row []string) (*models.Film, error) {
	releaseDate, err := time.Parse("2006-01-02", strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("bad release date %q: %w", row[2], err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, fmt.Errorf("bad duration %q: %w", row[3], err)
	}

	film := &models.Film{
		Name:        strings.TrimSpace(row[0]),
		Description: strings.TrimSpace(row[1]),
		ReleaseDate: models.Date{Time: releaseDate},
		Duration:    duration,
	}

	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		mpaID, err := strconv.ParseUint(strings.TrimSpace(row[4]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad mpa id %q: %w", row[4], err)
		}
		id := uint(mpaID)
		film.MpaID = &id
	}

	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		for _, part := range strings.Split(row[5], ",") {
			genreID, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad genre id %q: %w", part, err)
			}
			film.Genres = append(film.Genres, models.Genre{ID: uint(genreID)})
		}
	}

	return film, nil
}
