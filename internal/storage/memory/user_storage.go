package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

// UserStorage keeps users and their directed friendship edges in process
// memory. The id counter is monotonic and survives deletions, so an id is
// never reissued.
type UserStorage struct {
	mu      sync.RWMutex
	users   map[uint]*models.User
	friends map[uint]map[uint]struct{}
	lastID  uint
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users:   make(map[uint]*models.User),
		friends: make(map[uint]map[uint]struct{}),
	}
}

func (s *UserStorage) FindAll() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *s.withFriends(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *UserStorage) FindByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NotFoundf("user", id)
	}
	return s.withFriends(u), nil
}

func (s *UserStorage) ExistsByID(id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}

func (s *UserStorage) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	user.ID = s.lastID
	stored := *user
	stored.Friends = nil
	s.users[user.ID] = &stored
	return nil
}

func (s *UserStorage) Update(upd *models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[upd.ID]
	if !ok {
		return nil, errors.NotFoundf("user", upd.ID)
	}

	if upd.Email != nil {
		if err := models.ValidateEmail(*upd.Email); err != nil {
			return nil, err
		}
	}
	if upd.Login != nil {
		if err := models.ValidateLogin(*upd.Login); err != nil {
			return nil, err
		}
	}
	if upd.Birthday != nil {
		if err := models.ValidateBirthday(*upd.Birthday); err != nil {
			return nil, err
		}
	}

	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Login != nil {
		u.Login = *upd.Login
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			u.Name = u.Login
		} else {
			u.Name = *upd.Name
		}
	}
	if upd.Birthday != nil {
		u.Birthday = *upd.Birthday
	}

	return s.withFriends(u), nil
}

func (s *UserStorage) DeleteByID(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.NotFoundf("user", id)
	}

	delete(s.friends, id)
	for _, edges := range s.friends {
		delete(edges, id)
	}
	delete(s.users, id)
	return nil
}

func (s *UserStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[uint]*models.User)
	s.friends = make(map[uint]map[uint]struct{})
	return nil
}

func (s *UserStorage) AddFriend(userID, friendID uint) error {
	if userID == friendID {
		return errors.Validationf("user cannot friend themselves")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edges, ok := s.friends[userID]
	if !ok {
		edges = make(map[uint]struct{})
		s.friends[userID] = edges
	}
	edges[friendID] = struct{}{}
	return nil
}

func (s *UserStorage) RemoveFriend(userID, friendID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if edges, ok := s.friends[userID]; ok {
		delete(edges, friendID)
	}
	return nil
}

func (s *UserStorage) FriendIDs(userID uint) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.friendIDsLocked(userID), nil
}

func (s *UserStorage) friendIDsLocked(userID uint) []uint {
	ids := make([]uint, 0, len(s.friends[userID]))
	for id := range s.friends[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// withFriends copies the stored row with its outgoing edges attached, so
// callers never alias internal state. Callers must hold at least a read lock.
func (s *UserStorage) withFriends(u *models.User) *models.User {
	out := *u
	out.Friends = s.friendIDsLocked(u.ID)
	return &out
}
