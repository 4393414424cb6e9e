package services

import (
	"context"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/storage"
	"github.com/mkraev/filmoteka/pkg/errors"
	"github.com/mkraev/filmoteka/pkg/logger"
)

// FilmService composes film and user storage and fronts the popular-films
// ranking with an optional cache.
type FilmService struct {
	films storage.FilmStorage
	users storage.UserStorage

	// May be nil; every use is guarded.
	popularCache PopularCache

	popularDefaultCount int
}

func NewFilmService(films storage.FilmStorage, users storage.UserStorage, popularCache PopularCache, popularDefaultCount int) *FilmService {
	return &FilmService{
		films:               films,
		users:               users,
		popularCache:        popularCache,
		popularDefaultCount: popularDefaultCount,
	}
}

func (s *FilmService) FindAll() ([]models.Film, error) {
	return s.films.FindAll()
}

func (s *FilmService) FindByID(id uint) (*models.Film, error) {
	return s.films.FindByID(id)
}

func (s *FilmService) Create(film *models.Film) error {
	if err := s.films.Create(film); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Info("Film created", "id", film.ID, "name", film.Name)
	return nil
}

func (s *FilmService) Update(upd *models.FilmUpdate) (*models.Film, error) {
	film, err := s.films.Update(upd)
	if err != nil {
		return nil, err
	}
	invalidatePopular(s.popularCache)
	logger.Info("Film updated", "id", film.ID)
	return film, nil
}

func (s *FilmService) Delete(id uint) error {
	if err := s.films.DeleteByID(id); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Info("Film deleted", "id", id)
	return nil
}

func (s *FilmService) ClearAll() error {
	if err := s.films.Clear(); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Info("All films deleted")
	return nil
}

func (s *FilmService) AddLike(filmID, userID uint) error {
	if err := s.ensureUserExists(userID); err != nil {
		return err
	}
	if err := s.films.AddLike(filmID, userID); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Debug("Like added", "film_id", filmID, "user_id", userID)
	return nil
}

func (s *FilmService) RemoveLike(filmID, userID uint) error {
	if err := s.ensureUserExists(userID); err != nil {
		return err
	}
	if err := s.films.RemoveLike(filmID, userID); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Debug("Like removed", "film_id", filmID, "user_id", userID)
	return nil
}

// Popular ranks films by like count. A non-positive count falls back to the
// configured default.
func (s *FilmService) Popular(ctx context.Context, count int) ([]models.Film, error) {
	if count <= 0 {
		count = s.popularDefaultCount
	}

	if s.popularCache != nil {
		if films, ok := s.popularCache.GetPopular(ctx, count); ok {
			return films, nil
		}
	}

	films, err := s.films.Popular(count)
	if err != nil {
		return nil, err
	}

	if s.popularCache != nil {
		s.popularCache.SetPopular(ctx, count, films)
	}
	return films, nil
}

func (s *FilmService) ensureUserExists(id uint) error {
	exists, err := s.users.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundf("user", id)
	}
	return nil
}
