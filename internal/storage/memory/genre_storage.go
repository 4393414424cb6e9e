package memory

import (
	"sort"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

// GenreStorage serves the genre catalog from a seeded map.
type GenreStorage struct {
	genres map[uint]models.Genre
}

func NewGenreStorage(genres []models.Genre) *GenreStorage {
	byID := make(map[uint]models.Genre, len(genres))
	for _, g := range genres {
		byID[g.ID] = g
	}
	return &GenreStorage{genres: byID}
}

func (s *GenreStorage) FindAll() ([]models.Genre, error) {
	all := make([]models.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *GenreStorage) FindByID(id uint) (*models.Genre, error) {
	g, ok := s.genres[id]
	if !ok {
		return nil, errors.NotFoundf("genre", id)
	}
	return &g, nil
}

// MpaStorage serves the MPA rating catalog from a seeded map.
type MpaStorage struct {
	ratings map[uint]models.MpaRating
}

func NewMpaStorage(ratings []models.MpaRating) *MpaStorage {
	byID := make(map[uint]models.MpaRating, len(ratings))
	for _, r := range ratings {
		byID[r.ID] = r
	}
	return &MpaStorage{ratings: byID}
}

func (s *MpaStorage) FindAll() ([]models.MpaRating, error) {
	all := make([]models.MpaRating, 0, len(s.ratings))
	for _, r := range s.ratings {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *MpaStorage) FindByID(id uint) (*models.MpaRating, error) {
	r, ok := s.ratings[id]
	if !ok {
		return nil, errors.NotFoundf("mpa rating", id)
	}
	return &r, nil
}
