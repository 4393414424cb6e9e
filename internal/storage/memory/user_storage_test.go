package memory

import (
	"testing"
	"time"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

func newTestUser(login string) *models.User {
	return &models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: models.NewDate(1990, time.March, 14),
	}
}

func TestUserStorage_Create_AssignsMonotonicIDs(t *testing.T) {
	s := NewUserStorage()

	var ids []uint
	for _, login := range []string{"anna", "boris", "clara", "dmitri"} {
		u := newTestUser(login)
		if err := s.Create(u); err != nil {
			t.Fatalf("Create(%s) error = %v", login, err)
		}
		ids = append(ids, u.ID)
	}

	// Delete the two highest ids, then create again: the new id must still
	// exceed every id ever issued.
	if err := s.DeleteByID(ids[3]); err != nil {
		t.Fatalf("DeleteByID error = %v", err)
	}
	if err := s.DeleteByID(ids[2]); err != nil {
		t.Fatalf("DeleteByID error = %v", err)
	}

	u := newTestUser("elena")
	if err := s.Create(u); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if u.ID <= ids[3] {
		t.Errorf("new id %d not greater than previously issued id %d", u.ID, ids[3])
	}
}

func TestUserStorage_Create_DefaultsNameToLogin(t *testing.T) {
	s := NewUserStorage()

	u := newTestUser("anna")
	if err := s.Create(u); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if u.Name != "anna" {
		t.Errorf("Name = %q, want login %q", u.Name, "anna")
	}
}

func TestUserStorage_Update_Partial(t *testing.T) {
	s := NewUserStorage()

	u := newTestUser("anna")
	u.Name = "Anna K"
	if err := s.Create(u); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	newEmail := "anna.new@example.com"
	updated, err := s.Update(&models.UserUpdate{ID: u.ID, Email: &newEmail})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}

	if updated.Email != newEmail {
		t.Errorf("Email = %q, want %q", updated.Email, newEmail)
	}
	if updated.Login != "anna" || updated.Name != "Anna K" {
		t.Errorf("untouched fields changed: login=%q name=%q", updated.Login, updated.Name)
	}

	// Blank name resets to login, not to empty.
	blank := ""
	updated, err = s.Update(&models.UserUpdate{ID: u.ID, Name: &blank})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if updated.Name != "anna" {
		t.Errorf("Name after blank reset = %q, want %q", updated.Name, "anna")
	}
}

func TestUserStorage_Update_Validation(t *testing.T) {
	s := NewUserStorage()

	u := newTestUser("anna")
	if err := s.Create(u); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	badLogin := "has space"
	if _, err := s.Update(&models.UserUpdate{ID: u.ID, Login: &badLogin}); !errors.IsValidation(err) {
		t.Errorf("Update with bad login error = %v, want validation", err)
	}

	// Failed update must not have touched the stored row.
	stored, err := s.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID error = %v", err)
	}
	if stored.Login != "anna" {
		t.Errorf("Login = %q, want %q", stored.Login, "anna")
	}
}

func TestUserStorage_Update_NotFound(t *testing.T) {
	s := NewUserStorage()

	if _, err := s.Update(&models.UserUpdate{ID: 42}); !errors.IsNotFound(err) {
		t.Errorf("Update of absent id error = %v, want not found", err)
	}
}

func TestUserStorage_AddFriend_Directed(t *testing.T) {
	s := NewUserStorage()

	a, b := newTestUser("anna"), newTestUser("boris")
	if err := s.Create(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(b); err != nil {
		t.Fatal(err)
	}

	if err := s.AddFriend(a.ID, b.ID); err != nil {
		t.Fatalf("AddFriend error = %v", err)
	}

	aFriends, _ := s.FriendIDs(a.ID)
	bFriends, _ := s.FriendIDs(b.ID)
	if len(aFriends) != 1 || aFriends[0] != b.ID {
		t.Errorf("FriendIDs(a) = %v, want [%d]", aFriends, b.ID)
	}
	if len(bFriends) != 0 {
		t.Errorf("FriendIDs(b) = %v, want empty: edge must not be mirrored", bFriends)
	}
}

func TestUserStorage_AddFriend_Idempotent(t *testing.T) {
	s := NewUserStorage()

	a, b := newTestUser("anna"), newTestUser("boris")
	_ = s.Create(a)
	_ = s.Create(b)

	for i := 0; i < 3; i++ {
		if err := s.AddFriend(a.ID, b.ID); err != nil {
			t.Fatalf("AddFriend attempt %d error = %v", i, err)
		}
	}

	friends, _ := s.FriendIDs(a.ID)
	if len(friends) != 1 {
		t.Errorf("FriendIDs(a) = %v, want exactly one edge", friends)
	}
}

func TestUserStorage_AddFriend_Self(t *testing.T) {
	s := NewUserStorage()

	a := newTestUser("anna")
	_ = s.Create(a)

	if err := s.AddFriend(a.ID, a.ID); !errors.IsValidation(err) {
		t.Errorf("AddFriend(self) error = %v, want validation", err)
	}
}

func TestUserStorage_RemoveFriend_KeepsReverseEdge(t *testing.T) {
	s := NewUserStorage()

	a, b := newTestUser("anna"), newTestUser("boris")
	_ = s.Create(a)
	_ = s.Create(b)
	_ = s.AddFriend(a.ID, b.ID)
	_ = s.AddFriend(b.ID, a.ID)

	if err := s.RemoveFriend(a.ID, b.ID); err != nil {
		t.Fatalf("RemoveFriend error = %v", err)
	}

	aFriends, _ := s.FriendIDs(a.ID)
	bFriends, _ := s.FriendIDs(b.ID)
	if len(aFriends) != 0 {
		t.Errorf("FriendIDs(a) = %v, want empty", aFriends)
	}
	if len(bFriends) != 1 || bFriends[0] != a.ID {
		t.Errorf("FriendIDs(b) = %v, want [%d]: reverse edge must survive", bFriends, a.ID)
	}

	// Removing an absent edge is a no-op, not an error.
	if err := s.RemoveFriend(a.ID, b.ID); err != nil {
		t.Errorf("RemoveFriend of absent edge error = %v, want nil", err)
	}
}

func TestUserStorage_DeleteByID_PurgesEdges(t *testing.T) {
	s := NewUserStorage()

	a, b := newTestUser("anna"), newTestUser("boris")
	_ = s.Create(a)
	_ = s.Create(b)
	_ = s.AddFriend(a.ID, b.ID)
	_ = s.AddFriend(b.ID, a.ID)

	if err := s.DeleteByID(b.ID); err != nil {
		t.Fatalf("DeleteByID error = %v", err)
	}

	aFriends, _ := s.FriendIDs(a.ID)
	if len(aFriends) != 0 {
		t.Errorf("FriendIDs(a) = %v, want empty after friend deleted", aFriends)
	}

	if err := s.DeleteByID(b.ID); !errors.IsNotFound(err) {
		t.Errorf("second DeleteByID error = %v, want not found", err)
	}
}

func TestUserStorage_FindAll_Ordered(t *testing.T) {
	s := NewUserStorage()

	for _, login := range []string{"clara", "anna", "boris"} {
		if err := s.Create(newTestUser(login)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.FindAll()
	if err != nil {
		t.Fatalf("FindAll error = %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("FindAll not ordered by id: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}
