package services

import (
	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/storage"
	"github.com/mkraev/filmoteka/pkg/errors"
	"github.com/mkraev/filmoteka/pkg/logger"
)

// UserService composes user and film storage: deleting users has to purge
// the likes they left, and every friendship mutation verifies both sides
// exist first.
type UserService struct {
	users storage.UserStorage
	films storage.FilmStorage

	// May be nil; like purges on user deletion change rankings too.
	popularCache PopularCache
}

func NewUserService(users storage.UserStorage, films storage.FilmStorage, popularCache PopularCache) *UserService {
	return &UserService{users: users, films: films, popularCache: popularCache}
}

func (s *UserService) FindAll() ([]models.User, error) {
	return s.users.FindAll()
}

func (s *UserService) FindByID(id uint) (*models.User, error) {
	return s.users.FindByID(id)
}

func (s *UserService) Create(user *models.User) error {
	if err := s.users.Create(user); err != nil {
		return err
	}
	logger.Info("User created", "id", user.ID, "login", user.Login)
	return nil
}

func (s *UserService) Update(upd *models.UserUpdate) (*models.User, error) {
	user, err := s.users.Update(upd)
	if err != nil {
		return nil, err
	}
	logger.Info("User updated", "id", user.ID)
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	if err := s.ensureUserExists(id); err != nil {
		return err
	}
	// Likes reference the user from the film side; purge them before the
	// user row goes away.
	if err := s.films.RemoveLikesByUser(id); err != nil {
		return err
	}
	if err := s.users.DeleteByID(id); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Info("User deleted", "id", id)
	return nil
}

func (s *UserService) ClearAll() error {
	if err := s.films.ClearLikes(); err != nil {
		return err
	}
	if err := s.users.Clear(); err != nil {
		return err
	}
	invalidatePopular(s.popularCache)
	logger.Info("All users deleted")
	return nil
}

func (s *UserService) AddFriend(userID, friendID uint) error {
	if userID == friendID {
		return errors.Validationf("user cannot friend themselves")
	}
	if err := s.ensureUserExists(userID); err != nil {
		return err
	}
	if err := s.ensureUserExists(friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(userID, friendID); err != nil {
		return err
	}
	logger.Debug("Friend added", "user_id", userID, "friend_id", friendID)
	return nil
}

func (s *UserService) RemoveFriend(userID, friendID uint) error {
	if err := s.ensureUserExists(userID); err != nil {
		return err
	}
	if err := s.ensureUserExists(friendID); err != nil {
		return err
	}
	if err := s.users.RemoveFriend(userID, friendID); err != nil {
		return err
	}
	logger.Debug("Friend removed", "user_id", userID, "friend_id", friendID)
	return nil
}

func (s *UserService) Friends(userID uint) ([]models.User, error) {
	if err := s.ensureUserExists(userID); err != nil {
		return nil, err
	}
	ids, err := s.users.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ids)
}

// CommonFriends intersects the two directed outgoing edge sets. Edges are
// never assumed symmetric: only users both sides added show up.
func (s *UserService) CommonFriends(userID, otherID uint) ([]models.User, error) {
	if err := s.ensureUserExists(userID); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(otherID); err != nil {
		return nil, err
	}

	ids, err := s.users.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	otherIDs, err := s.users.FriendIDs(otherID)
	if err != nil {
		return nil, err
	}

	otherSet := make(map[uint]struct{}, len(otherIDs))
	for _, id := range otherIDs {
		otherSet[id] = struct{}{}
	}
	common := make([]uint, 0)
	for _, id := range ids {
		if _, ok := otherSet[id]; ok {
			common = append(common, id)
		}
	}
	return s.resolveUsers(common)
}

func (s *UserService) ensureUserExists(id uint) error {
	exists, err := s.users.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundf("user", id)
	}
	return nil
}

// resolveUsers maps ids to stored entities, preserving order. A dangling id
// cannot normally happen (deletes purge edges) but is skipped rather than
// failing the whole read.
func (s *UserService) resolveUsers(ids []uint) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}
