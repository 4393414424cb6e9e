package postgres

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

type GenreStorage struct {
	db *gorm.DB
}

func NewGenreStorage(db *gorm.DB) *GenreStorage {
	return &GenreStorage{db: db}
}

func (s *GenreStorage) FindAll() ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.Order("id").Find(&genres).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list genres")
	}
	return genres, nil
}

func (s *GenreStorage) FindByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.First(&genre, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("genre", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load genre")
	}
	return &genre, nil
}

type MpaStorage struct {
	db *gorm.DB
}

func NewMpaStorage(db *gorm.DB) *MpaStorage {
	return &MpaStorage{db: db}
}

func (s *MpaStorage) FindAll() ([]models.MpaRating, error) {
	var ratings []models.MpaRating
	if err := s.db.Order("id").Find(&ratings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list mpa ratings")
	}
	return ratings, nil
}

func (s *MpaStorage) FindByID(id uint) (*models.MpaRating, error) {
	var rating models.MpaRating
	if err := s.db.First(&rating, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("mpa rating", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load mpa rating")
	}
	return &rating, nil
}
