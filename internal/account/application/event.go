package application

import (
	"time"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const UserRegisteredEventName = "UserRegistered"

type UserRegisteredData struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

type userRegisteredEvent struct {
	data UserRegisteredData
}

func (e userRegisteredEvent) EventName() string {
	return UserRegisteredEventName
}

func (e userRegisteredEvent) Payload() UserRegisteredData {
	return e.data
}

func NewUserRegisteredEvent(data UserRegisteredData) domain.Event[UserRegisteredData] {
	return userRegisteredEvent{data: data}
}
