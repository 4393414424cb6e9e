// Package storage defines the capability interfaces implemented by the
// in-memory and postgres backends. Friendship, like and genre operations are
// part of the interfaces themselves so no caller ever needs to reach an
// implementation-specific method through a type assertion.
package storage

import (
	"github.com/mkraev/filmoteka/internal/models"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// UserStorage persists users and their directed friendship edges.
type UserStorage interface {
	FindAll() ([]models.User, error)
	FindByID(id uint) (*models.User, error)
	ExistsByID(id uint) (bool, error)
	// Create validates the user, assigns the next id and stores it.
	Create(user *models.User) error
	// Update applies only the non-nil fields of upd, re-validating each one,
	// and returns the stored user. Fails NOT_FOUND for an unknown id.
	Update(upd *models.UserUpdate) (*models.User, error)
	// DeleteByID removes the user and every friendship edge that references
	// it, in either direction. Likes left by the user are the film storage's
	// rows; callers sequence their removal first.
	DeleteByID(id uint) error
	Clear() error

	// AddFriend inserts the directed edge userID -> friendID if absent.
	// Fails VALIDATION_ERROR when userID == friendID.
	AddFriend(userID, friendID uint) error
	// RemoveFriend deletes the forward edge only; the reverse edge, if any,
	// is untouched. Absent edges are a no-op.
	RemoveFriend(userID, friendID uint) error
	// FriendIDs returns the targets of the user's active outgoing edges,
	// ordered by id.
	FriendIDs(userID uint) ([]uint, error)
}

// FilmStorage persists films together with their genre and like rows.
type FilmStorage interface {
	FindAll() ([]models.Film, error)
	FindByID(id uint) (*models.Film, error)
	ExistsByID(id uint) (bool, error)
	Create(film *models.Film) error
	Update(upd *models.FilmUpdate) (*models.Film, error)
	// DeleteByID removes the film's like and genre rows before the film row.
	DeleteByID(id uint) error
	Clear() error

	// ReplaceGenres swaps the film's genre set for the deduplicated,
	// id-sorted input, validating every genre id first.
	ReplaceGenres(filmID uint, genreIDs []uint) error
	// AddLike is idempotent on the (film, user) pair.
	AddLike(filmID, userID uint) error
	// RemoveLike is a no-op when the pair is absent.
	RemoveLike(filmID, userID uint) error
	// RemoveLikesByUser purges every like left by the user, across films.
	RemoveLikesByUser(userID uint) error
	ClearLikes() error

	// Popular returns up to count films ranked by distinct like count
	// descending, ties broken by ascending id, with genres and likes loaded
	// in one round-trip per association kind.
	Popular(count int) ([]models.Film, error)
}

// GenreStorage is read-only reference data.
type GenreStorage interface {
	FindAll() ([]models.Genre, error)
	FindByID(id uint) (*models.Genre, error)
}

// MpaStorage is read-only reference data.
type MpaStorage interface {
	FindAll() ([]models.MpaRating, error)
	FindByID(id uint) (*models.MpaRating, error)
}

// Stores bundles one backend's implementations for wiring.
type Stores struct {
	Users  UserStorage
	Films  FilmStorage
	Genres GenreStorage
	Mpa    MpaStorage
}
