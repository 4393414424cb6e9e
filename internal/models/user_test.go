package models

import (
	"testing"
	"time"
)

func validBirthday() Date {
	return NewDate(1990, time.March, 14)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Valid email",
			email:   "user@example.com",
			wantErr: false,
		},
		{
			name:    "Blank email",
			email:   "",
			wantErr: true,
		},
		{
			name:    "Whitespace only",
			email:   "   ",
			wantErr: true,
		},
		{
			name:    "Missing at sign",
			email:   "user.example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name    string
		login   string
		wantErr bool
	}{
		{
			name:    "Valid login",
			login:   "moviefan",
			wantErr: false,
		},
		{
			name:    "Blank login",
			login:   "",
			wantErr: true,
		},
		{
			name:    "Login with space",
			login:   "movie fan",
			wantErr: true,
		},
		{
			name:    "Login with tab",
			login:   "movie\tfan",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.login)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogin(%q) error = %v, wantErr %v", tt.login, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBirthday(t *testing.T) {
	tests := []struct {
		name     string
		birthday Date
		wantErr  bool
	}{
		{
			name:     "Past date",
			birthday: validBirthday(),
			wantErr:  false,
		},
		{
			name:     "Zero date",
			birthday: Date{},
			wantErr:  true,
		},
		{
			name:     "Future date",
			birthday: Date{Time: time.Now().AddDate(1, 0, 0)},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBirthday(tt.birthday)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBirthday(%v) error = %v, wantErr %v", tt.birthday, err, tt.wantErr)
			}
		})
	}
}

func TestUser_Validate(t *testing.T) {
	u := &User{
		Email:    "user@example.com",
		Login:    "moviefan",
		Birthday: validBirthday(),
	}
	if err := u.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	u.Email = "broken"
	if err := u.Validate(); err == nil {
		t.Error("Validate() expected error for bad email, got nil")
	}
}
