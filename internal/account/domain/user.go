package domain

import (
	"context"
	"errors"
	"time"
)

const (
	MinUsernameLength = 4
	MinPasswordLength = 4
)

var (
	ErrPasswordMismatch = errors.New("passwords don't match")
	ErrNameTooShort     = errors.New("name was too short")
	ErrPasswordTooShort = errors.New("password was too short")
	ErrUserExists       = errors.New("this account is exist")
	ErrUserNotFound     = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"size:254"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidateRegistration checks the form in the order the errors are reported:
// mismatch first, then the username, then the password.
func ValidateRegistration(username, password1, password2 string) error {
	if password1 != password2 {
		return ErrPasswordMismatch
	}
	if len([]rune(username)) < MinUsernameLength {
		return ErrNameTooShort
	}
	if len([]rune(password1)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

type UserRepository interface {
	// Save returns ErrUserExists when the username is taken.
	Save(ctx context.Context, user User) error
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}
