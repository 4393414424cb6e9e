package postgres

import (
	stderrors "errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) FindAll() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list users")
	}
	if err := s.loadFriendsForUsers(users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStorage) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("user", id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user")
	}

	friends, err := s.FriendIDs(id)
	if err != nil {
		return nil, err
	}
	user.Friends = friends
	return &user, nil
}

func (s *UserStorage) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check user existence")
	}
	return count > 0, nil
}

func (s *UserStorage) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	user.ID = 0
	if err := s.db.Create(user).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user")
	}
	user.Friends = []uint{}
	return nil
}

func (s *UserStorage) Update(upd *models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, upd.ID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("user", upd.ID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user")
	}

	if upd.Email != nil {
		if err := models.ValidateEmail(*upd.Email); err != nil {
			return nil, err
		}
		user.Email = *upd.Email
	}
	if upd.Login != nil {
		if err := models.ValidateLogin(*upd.Login); err != nil {
			return nil, err
		}
		user.Login = *upd.Login
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			user.Name = user.Login
		} else {
			user.Name = *upd.Name
		}
	}
	if upd.Birthday != nil {
		if err := models.ValidateBirthday(*upd.Birthday); err != nil {
			return nil, err
		}
		user.Birthday = *upd.Birthday
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update user")
	}

	friends, err := s.FriendIDs(user.ID)
	if err != nil {
		return nil, err
	}
	user.Friends = friends
	return &user, nil
}

func (s *UserStorage) DeleteByID(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? OR friend_id = ?", id, id).
			Delete(&models.Friendship{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete friendship edges")
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete user")
		}
		if result.RowsAffected == 0 {
			return errors.NotFoundf("user", id)
		}
		return nil
	})
}

func (s *UserStorage) Clear() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Friendship{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear friendships")
		}
		if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear users")
		}
		return nil
	})
}

func (s *UserStorage) AddFriend(userID, friendID uint) error {
	if userID == friendID {
		return errors.Validationf("user cannot friend themselves")
	}

	edge := models.Friendship{
		UserID:   userID,
		FriendID: friendID,
		Status:   models.FriendshipStatusConfirmed,
	}
	// Insert-or-ignore on the unique (user_id, friend_id) pair keeps the
	// operation idempotent under concurrent identical requests.
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
		DoNothing: true,
	}).Create(&edge).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add friend")
	}
	return nil
}

func (s *UserStorage) RemoveFriend(userID, friendID uint) error {
	// Only the forward edge; friendID -> userID stays untouched.
	err := s.db.Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friendship{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to remove friend")
	}
	return nil
}

func (s *UserStorage) FriendIDs(userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.Model(&models.Friendship{}).
		Where("user_id = ? AND status = ?", userID, models.FriendshipStatusConfirmed).
		Order("friend_id").
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list friends")
	}
	return ids, nil
}

// loadFriendsForUsers attaches outgoing edges for the whole result set with a
// single query instead of one per user.
func (s *UserStorage) loadFriendsForUsers(users []models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var edges []models.Friendship
	err := s.db.
		Where("user_id IN ? AND status = ?", ids, models.FriendshipStatusConfirmed).
		Order("friend_id").
		Find(&edges).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load friendship edges")
	}

	byUser := make(map[uint][]uint, len(users))
	for _, e := range edges {
		byUser[e.UserID] = append(byUser[e.UserID], e.FriendID)
	}
	for i := range users {
		friends := byUser[users[i].ID]
		if friends == nil {
			friends = []uint{}
		}
		users[i].Friends = friends
	}
	return nil
}
