package application

import (
	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const RegisterUserCommandName = "RegisterUser"

// RegisterUserData carries the registration form. ID is assigned by the caller.
type RegisterUserData struct {
	ID        string
	Username  string
	Email     string
	Password1 string
	Password2 string
}

type registerUserCommand struct {
	data RegisterUserData
}

func (c registerUserCommand) CommandName() string {
	return RegisterUserCommandName
}

func (c registerUserCommand) Payload() RegisterUserData {
	return c.data
}

func NewRegisterUserCommand(data RegisterUserData) domain.Command[RegisterUserData] {
	return registerUserCommand{data: data}
}
