package models

import (
	"strings"
	"time"

	"github.com/mkraev/filmoteka/pkg/errors"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"type:varchar(128);not null" json:"email"`
	Login    string `gorm:"type:varchar(64);not null" json:"login"`
	Name     string `gorm:"type:varchar(64)" json:"name"`
	Birthday Date   `gorm:"not null" json:"birthday"`

	// Outgoing friend ids, loaded by the storage layer. Not a column.
	Friends []uint `gorm:"-" json:"friends"`
}

func (User) TableName() string {
	return "users"
}

// UserUpdate is a partial update payload. Nil fields leave the stored value
// untouched; a pointer to an empty Name resets the display name to the login.
type UserUpdate struct {
	ID       uint
	Email    *string
	Login    *string
	Name     *string
	Birthday *Date
}

// Validate checks the full field set, as required on create.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if err := ValidateLogin(u.Login); err != nil {
		return err
	}
	return ValidateBirthday(u.Birthday)
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.Validationf("email must not be blank")
	}
	if !strings.Contains(email, "@") {
		return errors.Validationf("email must contain the @ character")
	}
	return nil
}

func ValidateLogin(login string) error {
	if strings.TrimSpace(login) == "" {
		return errors.Validationf("login must not be blank")
	}
	if strings.ContainsAny(login, " \t") {
		return errors.Validationf("login must not contain whitespace")
	}
	return nil
}

func ValidateBirthday(birthday Date) error {
	if birthday.IsZero() {
		return errors.Validationf("birthday must not be empty")
	}
	if birthday.After(time.Now()) {
		return errors.Validationf("birthday must not be in the future")
	}
	return nil
}
