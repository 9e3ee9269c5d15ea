package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountDomain "github.com/mateusmacedo/go-pathshare/internal/account/domain"
)

const (
	MaxModelLength       = 41
	MaxPlateNumberLength = 13
	MaxContactLength     = 41
	MaxCommentLength     = 200
	DefaultSeats         = 1
)

const (
	OptionSmoking = "smoking"
	OptionMusic   = "music"
	OptionAnimals = "dog"
)

var (
	ErrInvalidTransport  = errors.New("invalid transport")
	ErrTransportNotFound = errors.New("transport not found")
)

// Transport is a car a user offers for shared trips.
type Transport struct {
	ID          string              `json:"id" gorm:"primaryKey;size:36"`
	UserID      string              `json:"user_id" gorm:"size:36;not null;index"`
	User        *accountDomain.User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Model       string              `json:"model" gorm:"size:41"`
	PlateNumber string              `json:"plate_number" gorm:"size:13"`
	Seats       int                 `json:"seats" gorm:"not null;default:1"`
	Smoking     bool                `json:"smoking"`
	Music       bool                `json:"music"`
	Animals     bool                `json:"animals"`
	Contact     string              `json:"contact" gorm:"size:41"`
	Comment     string              `json:"comment" gorm:"size:200"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Validate enforces the column limits before anything reaches storage.
func (t Transport) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidTransport)
	}
	if err := maxLength("model", t.Model, MaxModelLength); err != nil {
		return err
	}
	if err := maxLength("plate_number", t.PlateNumber, MaxPlateNumberLength); err != nil {
		return err
	}
	if err := maxLength("contact", t.Contact, MaxContactLength); err != nil {
		return err
	}
	if err := maxLength("comment", t.Comment, MaxCommentLength); err != nil {
		return err
	}
	if t.Seats < 1 {
		return fmt.Errorf("%w: seats must be at least 1", ErrInvalidTransport)
	}
	return nil
}

func maxLength(field, value string, limit int) error {
	if len([]rune(value)) > limit {
		return fmt.Errorf("%w: %s longer than %d characters", ErrInvalidTransport, field, limit)
	}
	return nil
}

// ApplyOptions sets the amenity flags from the submitted option values.
func (t *Transport) ApplyOptions(options []string) {
	t.Smoking, t.Music, t.Animals = false, false, false
	for _, o := range options {
		switch o {
		case OptionSmoking:
			t.Smoking = true
		case OptionMusic:
			t.Music = true
		case OptionAnimals:
			t.Animals = true
		}
	}
}

type TransportRepository interface {
	Save(ctx context.Context, transport Transport) error
	// Delete removes the transport only if userID owns it; otherwise ErrTransportNotFound.
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id string) (Transport, error)
	FindByOwner(ctx context.Context, userID string) ([]Transport, error)
}
