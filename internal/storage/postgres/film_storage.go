package postgres

import (
	stderrors "errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

type FilmStorage struct {
	db         *gorm.DB
	genreStore *GenreStorage
	mpaStore   *MpaStorage
}

func NewFilmStorage(db *gorm.DB, genreStore *GenreStorage, mpaStore *MpaStorage) *FilmStorage {
	return &FilmStorage{db: db, genreStore: genreStore, mpaStore: mpaStore}
}

func (s *FilmStorage) FindAll() ([]models.Film, error) {
	var films []models.Film
	if err := s.db.Order("id").Find(&films).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list films")
	}
	if err := s.loadAssociationsForFilms(films); err != nil {
		return nil, err
	}
	return films, nil
}

func (s *FilmStorage) FindByID(id uint) (*models.Film, error) {
	var film models.Film
	if err := s.db.First(&film, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("film", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load film")
	}

	films := []models.Film{film}
	if err := s.loadAssociationsForFilms(films); err != nil {
		return nil, err
	}
	return &films[0], nil
}

func (s *FilmStorage) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Film{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check film existence")
	}
	return count > 0, nil
}

func (s *FilmStorage) Create(film *models.Film) error {
	if err := film.Validate(); err != nil {
		return err
	}
	if err := s.validateMpa(film.MpaID); err != nil {
		return err
	}
	genreIDs, err := s.normalizeGenres(genreIDsOf(film.Genres))
	if err != nil {
		return err
	}

	film.ID = 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		row := models.Film{
			Name:        film.Name,
			Description: film.Description,
			ReleaseDate: film.ReleaseDate,
			Duration:    film.Duration,
			MpaID:       film.MpaID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create film")
		}
		film.ID = row.ID
		return insertGenreRows(tx, row.ID, genreIDs)
	})
	if err != nil {
		return err
	}

	created, err := s.FindByID(film.ID)
	if err != nil {
		return err
	}
	*film = *created
	return nil
}

func (s *FilmStorage) Update(upd *models.FilmUpdate) (*models.Film, error) {
	var film models.Film
	if err := s.db.First(&film, upd.ID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("film", upd.ID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load film")
	}

	if upd.Name != nil {
		if err := models.ValidateFilmName(*upd.Name); err != nil {
			return nil, err
		}
		film.Name = *upd.Name
	}
	if upd.Description != nil {
		if err := models.ValidateDescription(*upd.Description); err != nil {
			return nil, err
		}
		film.Description = *upd.Description
	}
	if upd.ReleaseDate != nil {
		if err := models.ValidateReleaseDate(*upd.ReleaseDate); err != nil {
			return nil, err
		}
		film.ReleaseDate = *upd.ReleaseDate
	}
	if upd.Duration != nil {
		if err := models.ValidateDuration(*upd.Duration); err != nil {
			return nil, err
		}
		film.Duration = *upd.Duration
	}
	if upd.MpaSet {
		if err := s.validateMpa(upd.MpaID); err != nil {
			return nil, err
		}
		film.MpaID = upd.MpaID
	}
	var genreIDs []uint
	if upd.GenresSet {
		var err error
		genreIDs, err = s.normalizeGenres(upd.Genres)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&film).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update film")
		}
		if upd.GenresSet {
			if err := tx.Where("film_id = ?", film.ID).Delete(&models.FilmGenre{}).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear film genres")
			}
			return insertGenreRows(tx, film.ID, genreIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(film.ID)
}

func (s *FilmStorage) DeleteByID(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("film_id = ?", id).Delete(&models.FilmLike{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete film likes")
		}
		if err := tx.Where("film_id = ?", id).Delete(&models.FilmGenre{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete film genres")
		}

		result := tx.Delete(&models.Film{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete film")
		}
		if result.RowsAffected == 0 {
			return errors.NotFoundf("film", id)
		}
		return nil
	})
}

func (s *FilmStorage) Clear() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FilmLike{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear film likes")
		}
		if err := tx.Where("1 = 1").Delete(&models.FilmGenre{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear film genres")
		}
		if err := tx.Where("1 = 1").Delete(&models.Film{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear films")
		}
		return nil
	})
}

func (s *FilmStorage) ReplaceGenres(filmID uint, genreIDs []uint) error {
	exists, err := s.ExistsByID(filmID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundf("film", filmID)
	}

	normalized, err := s.normalizeGenres(genreIDs)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("film_id = ?", filmID).Delete(&models.FilmGenre{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear film genres")
		}
		return insertGenreRows(tx, filmID, normalized)
	})
}

func (s *FilmStorage) AddLike(filmID, userID uint) error {
	exists, err := s.ExistsByID(filmID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundf("film", filmID)
	}

	like := models.FilmLike{FilmID: filmID, UserID: userID}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "film_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&like).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add like")
	}
	return nil
}

func (s *FilmStorage) RemoveLike(filmID, userID uint) error {
	err := s.db.Where("film_id = ? AND user_id = ?", filmID, userID).
		Delete(&models.FilmLike{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to remove like")
	}
	return nil
}

func (s *FilmStorage) RemoveLikesByUser(userID uint) error {
	err := s.db.Where("user_id = ?", userID).Delete(&models.FilmLike{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to remove user likes")
	}
	return nil
}

func (s *FilmStorage) ClearLikes() error {
	err := s.db.Where("1 = 1").Delete(&models.FilmLike{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear likes")
	}
	return nil
}

func (s *FilmStorage) Popular(count int) ([]models.Film, error) {
	var films []models.Film
	err := s.db.Model(&models.Film{}).
		Select("films.*, COUNT(film_likes.user_id) AS likes_count").
		Joins("LEFT JOIN film_likes ON film_likes.film_id = films.id").
		Group("films.id").
		Order("likes_count DESC, films.id ASC").
		Limit(count).
		Find(&films).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to rank films")
	}
	if err := s.loadAssociationsForFilms(films); err != nil {
		return nil, err
	}
	return films, nil
}

func (s *FilmStorage) validateMpa(mpaID *uint) error {
	if mpaID == nil {
		return nil
	}
	_, err := s.mpaStore.FindByID(*mpaID)
	return err
}

// normalizeGenres checks every referenced genre and returns the deduplicated,
// id-sorted set.
func (s *FilmStorage) normalizeGenres(genreIDs []uint) ([]uint, error) {
	seen := make(map[uint]struct{}, len(genreIDs))
	normalized := make([]uint, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		if _, err := s.genreStore.FindByID(id); err != nil {
			return nil, err
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	return normalized, nil
}

func insertGenreRows(tx *gorm.DB, filmID uint, genreIDs []uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]models.FilmGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		rows = append(rows, models.FilmGenre{FilmID: filmID, GenreID: genreID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to insert film genres")
	}
	return nil
}

// loadAssociationsForFilms attaches rating, genres and likes for the whole
// result set, one query per association kind instead of one per film.
func (s *FilmStorage) loadAssociationsForFilms(films []models.Film) error {
	if len(films) == 0 {
		return nil
	}

	filmIDs := make([]uint, 0, len(films))
	mpaIDs := make([]uint, 0, len(films))
	for _, f := range films {
		filmIDs = append(filmIDs, f.ID)
		if f.MpaID != nil {
			mpaIDs = append(mpaIDs, *f.MpaID)
		}
	}

	mpaByID := make(map[uint]models.MpaRating)
	if len(mpaIDs) > 0 {
		var ratings []models.MpaRating
		if err := s.db.Where("id IN ?", mpaIDs).Find(&ratings).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load mpa ratings")
		}
		for _, r := range ratings {
			mpaByID[r.ID] = r
		}
	}

	type filmGenreRow struct {
		FilmID uint
		ID     uint
		Name   string
	}
	var genreRows []filmGenreRow
	err := s.db.Model(&models.FilmGenre{}).
		Select("film_genres.film_id, genres.id, genres.name").
		Joins("JOIN genres ON genres.id = film_genres.genre_id").
		Where("film_genres.film_id IN ?", filmIDs).
		Order("film_genres.film_id, genres.id").
		Scan(&genreRows).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load film genres")
	}
	genresByFilm := make(map[uint][]models.Genre)
	for _, row := range genreRows {
		genresByFilm[row.FilmID] = append(genresByFilm[row.FilmID], models.Genre{ID: row.ID, Name: row.Name})
	}

	var likeRows []models.FilmLike
	err = s.db.Where("film_id IN ?", filmIDs).Order("user_id").Find(&likeRows).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load film likes")
	}
	likesByFilm := make(map[uint][]uint)
	for _, row := range likeRows {
		likesByFilm[row.FilmID] = append(likesByFilm[row.FilmID], row.UserID)
	}

	for i := range films {
		f := &films[i]
		if f.MpaID != nil {
			if mpa, ok := mpaByID[*f.MpaID]; ok {
				f.Mpa = &mpa
			}
		}
		f.Genres = genresByFilm[f.ID]
		if f.Genres == nil {
			f.Genres = []models.Genre{}
		}
		f.Likes = likesByFilm[f.ID]
		if f.Likes == nil {
			f.Likes = []uint{}
		}
	}
	return nil
}

func genreIDsOf(genres []models.Genre) []uint {
	ids := make([]uint, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
