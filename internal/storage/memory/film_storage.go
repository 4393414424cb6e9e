package memory

import (
	"sort"
	"sync"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/storage"
	"github.com/mkraev/filmoteka/pkg/errors"
)

// FilmStorage keeps films together with their genre and like rows in process
// memory, validating genre and MPA references against the classification
// stores it is built with.
type FilmStorage struct {
	mu     sync.RWMutex
	films  map[uint]*models.Film
	genres map[uint][]uint
	likes  map[uint]map[uint]struct{}
	lastID uint

	genreStore storage.GenreStorage
	mpaStore   storage.MpaStorage
}

func NewFilmStorage(genreStore storage.GenreStorage, mpaStore storage.MpaStorage) *FilmStorage {
	return &FilmStorage{
		films:      make(map[uint]*models.Film),
		genres:     make(map[uint][]uint),
		likes:      make(map[uint]map[uint]struct{}),
		genreStore: genreStore,
		mpaStore:   mpaStore,
	}
}

func (s *FilmStorage) FindAll() ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Film, 0, len(s.films))
	for _, f := range s.films {
		loaded, err := s.loadAssociations(f)
		if err != nil {
			return nil, err
		}
		all = append(all, *loaded)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *FilmStorage) FindByID(id uint) (*models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.films[id]
	if !ok {
		return nil, errors.NotFoundf("film", id)
	}
	return s.loadAssociations(f)
}

func (s *FilmStorage) ExistsByID(id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.films[id]
	return ok, nil
}

func (s *FilmStorage) Create(film *models.Film) error {
	if err := film.Validate(); err != nil {
		return err
	}
	if err := s.validateMpa(film.MpaID); err != nil {
		return err
	}
	genreIDs := genreIDsOf(film.Genres)
	normalized, err := s.validateGenres(genreIDs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	film.ID = s.lastID
	stored := *film
	stored.Mpa = nil
	stored.Genres = nil
	stored.Likes = nil
	s.films[film.ID] = &stored
	s.genres[film.ID] = normalized

	loaded, err := s.loadAssociations(&stored)
	if err != nil {
		return err
	}
	*film = *loaded
	return nil
}

func (s *FilmStorage) Update(upd *models.FilmUpdate) (*models.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.films[upd.ID]
	if !ok {
		return nil, errors.NotFoundf("film", upd.ID)
	}

	if upd.Name != nil {
		if err := models.ValidateFilmName(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if err := models.ValidateDescription(*upd.Description); err != nil {
			return nil, err
		}
	}
	if upd.ReleaseDate != nil {
		if err := models.ValidateReleaseDate(*upd.ReleaseDate); err != nil {
			return nil, err
		}
	}
	if upd.Duration != nil {
		if err := models.ValidateDuration(*upd.Duration); err != nil {
			return nil, err
		}
	}
	if upd.MpaSet {
		if err := s.validateMpa(upd.MpaID); err != nil {
			return nil, err
		}
	}
	var normalized []uint
	if upd.GenresSet {
		var err error
		normalized, err = s.validateGenres(upd.Genres)
		if err != nil {
			return nil, err
		}
	}

	if upd.Name != nil {
		f.Name = *upd.Name
	}
	if upd.Description != nil {
		f.Description = *upd.Description
	}
	if upd.ReleaseDate != nil {
		f.ReleaseDate = *upd.ReleaseDate
	}
	if upd.Duration != nil {
		f.Duration = *upd.Duration
	}
	if upd.MpaSet {
		f.MpaID = upd.MpaID
	}
	if upd.GenresSet {
		s.genres[f.ID] = normalized
	}

	return s.loadAssociations(f)
}

func (s *FilmStorage) DeleteByID(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[id]; !ok {
		return errors.NotFoundf("film", id)
	}

	delete(s.likes, id)
	delete(s.genres, id)
	delete(s.films, id)
	return nil
}

func (s *FilmStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.films = make(map[uint]*models.Film)
	s.genres = make(map[uint][]uint)
	s.likes = make(map[uint]map[uint]struct{})
	return nil
}

func (s *FilmStorage) ReplaceGenres(filmID uint, genreIDs []uint) error {
	normalized, err := s.validateGenres(genreIDs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[filmID]; !ok {
		return errors.NotFoundf("film", filmID)
	}
	s.genres[filmID] = normalized
	return nil
}

func (s *FilmStorage) AddLike(filmID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[filmID]; !ok {
		return errors.NotFoundf("film", filmID)
	}

	likers, ok := s.likes[filmID]
	if !ok {
		likers = make(map[uint]struct{})
		s.likes[filmID] = likers
	}
	likers[userID] = struct{}{}
	return nil
}

func (s *FilmStorage) RemoveLike(filmID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if likers, ok := s.likes[filmID]; ok {
		delete(likers, userID)
	}
	return nil
}

func (s *FilmStorage) RemoveLikesByUser(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, likers := range s.likes {
		delete(likers, userID)
	}
	return nil
}

func (s *FilmStorage) ClearLikes() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.likes = make(map[uint]map[uint]struct{})
	return nil
}

func (s *FilmStorage) Popular(count int) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranked := make([]*models.Film, 0, len(s.films))
	for _, f := range s.films {
		ranked = append(ranked, f)
	}
	sort.Slice(ranked, func(i, j int) bool {
		li, lj := len(s.likes[ranked[i].ID]), len(s.likes[ranked[j].ID])
		if li != lj {
			return li > lj
		}
		return ranked[i].ID < ranked[j].ID
	})
	if count >= 0 && count < len(ranked) {
		ranked = ranked[:count]
	}

	out := make([]models.Film, 0, len(ranked))
	for _, f := range ranked {
		loaded, err := s.loadAssociations(f)
		if err != nil {
			return nil, err
		}
		out = append(out, *loaded)
	}
	return out, nil
}

func (s *FilmStorage) validateMpa(mpaID *uint) error {
	if mpaID == nil {
		return nil
	}
	_, err := s.mpaStore.FindByID(*mpaID)
	return err
}

// validateGenres checks every referenced genre and returns the deduplicated,
// id-sorted set.
func (s *FilmStorage) validateGenres(genreIDs []uint) ([]uint, error) {
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

// loadAssociations copies the stored row with its rating, genres and likes
// attached. Callers must hold at least a read lock.
func (s *FilmStorage) loadAssociations(f *models.Film) (*models.Film, error) {
	out := *f

	if f.MpaID != nil {
		mpa, err := s.mpaStore.FindByID(*f.MpaID)
		if err != nil {
			return nil, err
		}
		out.Mpa = mpa
	}

	out.Genres = make([]models.Genre, 0, len(s.genres[f.ID]))
	for _, id := range s.genres[f.ID] {
		g, err := s.genreStore.FindByID(id)
		if err != nil {
			return nil, err
		}
		out.Genres = append(out.Genres, *g)
	}

	out.Likes = make([]uint, 0, len(s.likes[f.ID]))
	for id := range s.likes[f.ID] {
		out.Likes = append(out.Likes, id)
	}
	sort.Slice(out.Likes, func(i, j int) bool { return out.Likes[i] < out.Likes[j] })

	return &out, nil
}

func genreIDsOf(genres []models.Genre) []uint {
	ids := make([]uint, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
