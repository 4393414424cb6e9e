package memory

import (
	"testing"
	"time"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/errors"
)

func newTestFilmStorage() *FilmStorage {
	genres := NewGenreStorage(models.DefaultGenres())
	mpa := NewMpaStorage(models.DefaultMpaRatings())
	return NewFilmStorage(genres, mpa)
}

func newTestFilm(name string) *models.Film {
	return &models.Film{
		Name:        name,
		Description: "test film",
		ReleaseDate: models.NewDate(2000, time.January, 1),
		Duration:    120,
	}
}

func mustCreate(t *testing.T, s *FilmStorage, name string) *models.Film {
	t.Helper()
	f := newTestFilm(name)
	if err := s.Create(f); err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return f
}

func TestFilmStorage_Create_ValidatesReferences(t *testing.T) {
	s := newTestFilmStorage()

	f := newTestFilm("some film")
	badMpa := uint(99)
	f.MpaID = &badMpa
	if err := s.Create(f); !errors.IsNotFound(err) {
		t.Errorf("Create with unknown mpa error = %v, want not found", err)
	}

	f = newTestFilm("other film")
	f.Genres = []models.Genre{{ID: 77}}
	if err := s.Create(f); !errors.IsNotFound(err) {
		t.Errorf("Create with unknown genre error = %v, want not found", err)
	}
}

func TestFilmStorage_ReplaceGenres_DeduplicatesAndSorts(t *testing.T) {
	s := newTestFilmStorage()
	f := mustCreate(t, s, "some film")

	if err := s.ReplaceGenres(f.ID, []uint{3, 1, 1, 2}); err != nil {
		t.Fatalf("ReplaceGenres error = %v", err)
	}

	stored, err := s.FindByID(f.ID)
	if err != nil {
		t.Fatalf("FindByID error = %v", err)
	}

	want := []uint{1, 2, 3}
	if len(stored.Genres) != len(want) {
		t.Fatalf("Genres = %v, want ids %v", stored.Genres, want)
	}
	for i, g := range stored.Genres {
		if g.ID != want[i] {
			t.Errorf("Genres[%d].ID = %d, want %d", i, g.ID, want[i])
		}
		if g.Name == "" {
			t.Errorf("Genres[%d].Name empty, want resolved name", i)
		}
	}
}

func TestFilmStorage_ReplaceGenres_ReplacesWholeSet(t *testing.T) {
	s := newTestFilmStorage()
	f := mustCreate(t, s, "some film")

	_ = s.ReplaceGenres(f.ID, []uint{1, 2})
	_ = s.ReplaceGenres(f.ID, []uint{4})

	stored, _ := s.FindByID(f.ID)
	if len(stored.Genres) != 1 || stored.Genres[0].ID != 4 {
		t.Errorf("Genres = %v, want only id 4", stored.Genres)
	}
}

func TestFilmStorage_AddLike_Idempotent(t *testing.T) {
	s := newTestFilmStorage()
	f := mustCreate(t, s, "some film")

	if err := s.AddLike(f.ID, 7); err != nil {
		t.Fatalf("AddLike error = %v", err)
	}
	if err := s.AddLike(f.ID, 7); err != nil {
		t.Fatalf("second AddLike error = %v", err)
	}

	stored, _ := s.FindByID(f.ID)
	if len(stored.Likes) != 1 || stored.Likes[0] != 7 {
		t.Errorf("Likes = %v, want [7]", stored.Likes)
	}
}

func TestFilmStorage_AddLike_UnknownFilm(t *testing.T) {
	s := newTestFilmStorage()

	if err := s.AddLike(404, 7); !errors.IsNotFound(err) {
		t.Errorf("AddLike on absent film error = %v, want not found", err)
	}
}

func TestFilmStorage_RemoveLike_AbsentPairIsNoop(t *testing.T) {
	s := newTestFilmStorage()
	f := mustCreate(t, s, "some film")

	if err := s.RemoveLike(f.ID, 7); err != nil {
		t.Errorf("RemoveLike of absent pair error = %v, want nil", err)
	}
}

func TestFilmStorage_Popular_RankingAndTieBreak(t *testing.T) {
	s := newTestFilmStorage()

	// Three films; give the first and third equal like counts so the tie
	// breaks on ascending id.
	first := mustCreate(t, s, "first")
	second := mustCreate(t, s, "second")
	third := mustCreate(t, s, "third")

	for user := uint(1); user <= 5; user++ {
		_ = s.AddLike(first.ID, user)
		_ = s.AddLike(third.ID, user)
	}
	_ = s.AddLike(second.ID, 1)
	_ = s.AddLike(second.ID, 2)

	popular, err := s.Popular(3)
	if err != nil {
		t.Fatalf("Popular error = %v", err)
	}

	wantOrder := []uint{first.ID, third.ID, second.ID}
	if len(popular) != 3 {
		t.Fatalf("Popular returned %d films, want 3", len(popular))
	}
	for i, f := range popular {
		if f.ID != wantOrder[i] {
			t.Errorf("popular[%d].ID = %d, want %d", i, f.ID, wantOrder[i])
		}
	}

	// Requesting fewer returns a prefix.
	top1, _ := s.Popular(1)
	if len(top1) != 1 || top1[0].ID != first.ID {
		t.Errorf("Popular(1) = %v, want only film %d", top1, first.ID)
	}
}

func TestFilmStorage_DeleteByID_PurgesAssociations(t *testing.T) {
	s := newTestFilmStorage()

	doomed := mustCreate(t, s, "doomed")
	survivor := mustCreate(t, s, "survivor")
	_ = s.ReplaceGenres(doomed.ID, []uint{1, 2})
	_ = s.AddLike(doomed.ID, 1)
	_ = s.AddLike(doomed.ID, 2)
	_ = s.AddLike(survivor.ID, 1)

	if err := s.DeleteByID(doomed.ID); err != nil {
		t.Fatalf("DeleteByID error = %v", err)
	}

	popular, err := s.Popular(10)
	if err != nil {
		t.Fatalf("Popular error = %v", err)
	}
	for _, f := range popular {
		if f.ID == doomed.ID {
			t.Errorf("Popular still references deleted film %d", doomed.ID)
		}
	}

	if err := s.DeleteByID(doomed.ID); !errors.IsNotFound(err) {
		t.Errorf("second DeleteByID error = %v, want not found", err)
	}
}

func TestFilmStorage_Update_Partial(t *testing.T) {
	s := newTestFilmStorage()

	f := newTestFilm("original name")
	f.Genres = []models.Genre{{ID: 1}, {ID: 2}}
	if err := s.Create(f); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	newName := "renamed"
	updated, err := s.Update(&models.FilmUpdate{ID: f.ID, Name: &newName})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}

	if updated.Name != newName {
		t.Errorf("Name = %q, want %q", updated.Name, newName)
	}
	if updated.Description != "test film" {
		t.Errorf("Description changed: %q", updated.Description)
	}
	if updated.Duration != 120 {
		t.Errorf("Duration changed: %d", updated.Duration)
	}
	if len(updated.Genres) != 2 {
		t.Errorf("Genres changed: %v", updated.Genres)
	}

	// An explicitly empty genre list clears the set.
	updated, err = s.Update(&models.FilmUpdate{ID: f.ID, Genres: []uint{}, GenresSet: true})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if len(updated.Genres) != 0 {
		t.Errorf("Genres = %v, want empty", updated.Genres)
	}
}

func TestFilmStorage_Update_NotFound(t *testing.T) {
	s := newTestFilmStorage()

	if _, err := s.Update(&models.FilmUpdate{ID: 404}); !errors.IsNotFound(err) {
		t.Errorf("Update of absent id error = %v, want not found", err)
	}
}

func TestFilmStorage_RemoveLikesByUser(t *testing.T) {
	s := newTestFilmStorage()

	a := mustCreate(t, s, "first")
	b := mustCreate(t, s, "second")
	_ = s.AddLike(a.ID, 1)
	_ = s.AddLike(a.ID, 2)
	_ = s.AddLike(b.ID, 1)

	if err := s.RemoveLikesByUser(1); err != nil {
		t.Fatalf("RemoveLikesByUser error = %v", err)
	}

	storedA, _ := s.FindByID(a.ID)
	storedB, _ := s.FindByID(b.ID)
	if len(storedA.Likes) != 1 || storedA.Likes[0] != 2 {
		t.Errorf("film a Likes = %v, want [2]", storedA.Likes)
	}
	if len(storedB.Likes) != 0 {
		t.Errorf("film b Likes = %v, want empty", storedB.Likes)
	}
}
