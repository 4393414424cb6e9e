package models

import (
	"strings"
	"time"

	"github.com/mkraev/filmoteka/pkg/errors"
)

// MinReleaseDate is the day cinema was born; films cannot predate it.
var MinReleaseDate = NewDate(1895, time.December, 28)

const maxDescriptionLength = 200

type Film struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:varchar(200)" json:"description"`
	ReleaseDate Date   `gorm:"not null" json:"releaseDate"`
	Duration    int    `gorm:"not null" json:"duration"`
	MpaID       *uint  `json:"-"`

	// Loaded by the storage layer, not managed as gorm relations.
	Mpa    *MpaRating `gorm:"-" json:"mpa,omitempty"`
	Genres []Genre    `gorm:"-" json:"genres"`
	Likes  []uint     `gorm:"-" json:"likes"`
}

func (Film) TableName() string {
	return "films"
}

// FilmUpdate is a partial update payload. Nil fields leave the stored value
// untouched. A non-nil Genres slice (even empty) replaces the genre set;
// MpaSet distinguishes "clear the rating" from "leave it".
type FilmUpdate struct {
	ID          uint
	Name        *string
	Description *string
	ReleaseDate *Date
	Duration    *int
	MpaID       *uint
	MpaSet      bool
	Genres      []uint
	GenresSet   bool
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(64);not null" json:"name"`
}

func (Genre) TableName() string {
	return "genres"
}

type MpaRating struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(16);not null" json:"name"`
}

func (MpaRating) TableName() string {
	return "mpa_ratings"
}

// FilmGenre is a row of the film/genre join table, unique per pair.
type FilmGenre struct {
	ID      uint `gorm:"primaryKey"`
	FilmID  uint `gorm:"not null;index:idx_film_genre,unique"`
	GenreID uint `gorm:"not null;index:idx_film_genre,unique"`
}

func (FilmGenre) TableName() string {
	return "film_genres"
}

// FilmLike is a row of the film/user like table, unique per pair.
type FilmLike struct {
	ID        uint      `gorm:"primaryKey"`
	FilmID    uint      `gorm:"not null;index:idx_film_like,unique"`
	UserID    uint      `gorm:"not null;index:idx_film_like,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FilmLike) TableName() string {
	return "film_likes"
}

// Validate checks the full field set, as required on create.
func (f *Film) Validate() error {
	if err := ValidateFilmName(f.Name); err != nil {
		return err
	}
	if err := ValidateDescription(f.Description); err != nil {
		return err
	}
	if err := ValidateReleaseDate(f.ReleaseDate); err != nil {
		return err
	}
	return ValidateDuration(f.Duration)
}

func ValidateFilmName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Validationf("film name must not be blank")
	}
	return nil
}

func ValidateDescription(description string) error {
	if len([]rune(description)) > maxDescriptionLength {
		return errors.Validationf("description must not exceed %d characters", maxDescriptionLength)
	}
	return nil
}

func ValidateReleaseDate(releaseDate Date) error {
	if releaseDate.IsZero() {
		return errors.Validationf("release date must not be empty")
	}
	if releaseDate.Before(MinReleaseDate.Time) {
		return errors.Validationf("release date must not be before %s", MinReleaseDate)
	}
	return nil
}

func ValidateDuration(duration int) error {
	if duration <= 0 {
		return errors.Validationf("duration must be a positive number")
	}
	return nil
}
