package application

import (
	"time"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const (
	TransportAddedEventName   = "TransportAdded"
	TransportRemovedEventName = "TransportRemoved"
)

type TransportChangedData struct {
	TransportID string    `json:"transport_id"`
	UserID      string    `json:"user_id"`
	At          time.Time `json:"at"`
}

type transportChangedEvent struct {
	name string
	data TransportChangedData
}

func (e transportChangedEvent) EventName() string {
	return e.name
}

func (e transportChangedEvent) Payload() TransportChangedData {
	return e.data
}

func NewTransportAddedEvent(data TransportChangedData) domain.Event[TransportChangedData] {
	return transportChangedEvent{name: TransportAddedEventName, data: data}
}

func NewTransportRemovedEvent(data TransportChangedData) domain.Event[TransportChangedData] {
	return transportChangedEvent{name: TransportRemovedEventName, data: data}
}
