package application

import (
	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const (
	AddTransportCommandName    = "AddTransport"
	RemoveTransportCommandName = "RemoveTransport"
)

// TransportCommandData is shared by both transport commands; RemoveTransport only
// reads ID and UserID.
type TransportCommandData struct {
	ID          string
	UserID      string
	Model       string
	PlateNumber string
	Seats       int
	Options     []string
	Contact     string
	Comment     string
}

type transportCommand struct {
	name string
	data TransportCommandData
}

func (c transportCommand) CommandName() string {
	return c.name
}

func (c transportCommand) Payload() TransportCommandData {
	return c.data
}

func NewAddTransportCommand(data TransportCommandData) domain.Command[TransportCommandData] {
	return transportCommand{name: AddTransportCommandName, data: data}
}

func NewRemoveTransportCommand(id, userID string) domain.Command[TransportCommandData] {
	return transportCommand{name: RemoveTransportCommandName, data: TransportCommandData{ID: id, UserID: userID}}
}
