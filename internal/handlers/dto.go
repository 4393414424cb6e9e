package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/internal/security"
)

// userRequest is the wire payload for user create and update. Pointer fields
// distinguish "absent" from "present but empty": on update an absent field
// leaves the stored value untouched.
type userRequest struct {
	ID       *uint        `json:"id"`
	Email    *string      `json:"email"`
	Login    *string      `json:"login"`
	Name     *string      `json:"name"`
	Birthday *models.Date `json:"birthday"`
}

// toUser flattens the payload for create; absent fields become zero values
// and fail validation in the storage layer.
func (r *userRequest) toUser() *models.User {
	u := &models.User{}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Login != nil {
		u.Login = *r.Login
	}
	if r.Name != nil {
		u.Name = security.SanitizeText(*r.Name)
	}
	if r.Birthday != nil {
		u.Birthday = *r.Birthday
	}
	return u
}

func (r *userRequest) toUpdate() *models.UserUpdate {
	upd := &models.UserUpdate{
		Email:    r.Email,
		Login:    r.Login,
		Birthday: r.Birthday,
	}
	if r.ID != nil {
		upd.ID = *r.ID
	}
	if r.Name != nil {
		clean := security.SanitizeText(*r.Name)
		upd.Name = &clean
	}
	return upd
}

type genreRef struct {
	ID uint `json:"id"`
}

type mpaRef struct {
	ID uint `json:"id"`
}

// mpaField records whether the "mpa" key was present at all: an explicit
// null clears the film's rating, an absent key leaves it unchanged.
type mpaField struct {
	present bool
	ref     *mpaRef
}

func (m *mpaField) UnmarshalJSON(data []byte) error {
	m.present = true
	if bytes.Equal(data, []byte("null")) {
		m.ref = nil
		return nil
	}
	return json.Unmarshal(data, &m.ref)
}

// filmRequest is the wire payload for film create and update. A genres slice
// that is present (even empty) replaces the film's genre set; an absent one
// leaves it alone. An explicit null mpa clears the rating.
type filmRequest struct {
	ID          *uint        `json:"id"`
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	ReleaseDate *models.Date `json:"releaseDate"`
	Duration    *int         `json:"duration"`
	Mpa         mpaField     `json:"mpa"`
	Genres      *[]genreRef  `json:"genres"`
}

func (r *filmRequest) toFilm() *models.Film {
	f := &models.Film{}
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Description != nil {
		f.Description = security.SanitizeText(*r.Description)
	}
	if r.ReleaseDate != nil {
		f.ReleaseDate = *r.ReleaseDate
	}
	if r.Duration != nil {
		f.Duration = *r.Duration
	}
	if r.Mpa.ref != nil {
		id := r.Mpa.ref.ID
		f.MpaID = &id
	}
	if r.Genres != nil {
		for _, g := range *r.Genres {
			f.Genres = append(f.Genres, models.Genre{ID: g.ID})
		}
	}
	return f
}

func (r *filmRequest) toUpdate() *models.FilmUpdate {
	upd := &models.FilmUpdate{
		Name:        r.Name,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
	}
	if r.ID != nil {
		upd.ID = *r.ID
	}
	if r.Description != nil {
		clean := security.SanitizeText(*r.Description)
		upd.Description = &clean
	}
	if r.Mpa.present {
		upd.MpaSet = true
		if r.Mpa.ref != nil {
			id := r.Mpa.ref.ID
			upd.MpaID = &id
		}
	}
	if r.Genres != nil {
		upd.GenresSet = true
		upd.Genres = make([]uint, 0, len(*r.Genres))
		for _, g := range *r.Genres {
			upd.Genres = append(upd.Genres, g.ID)
		}
	}
	return upd
}
