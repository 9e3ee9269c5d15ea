package application

import (
	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const FindTransportsByOwnerQueryName = "FindTransportsByOwner"

type FindTransportsByOwnerData struct {
	UserID string
}

type findTransportsByOwnerQuery struct {
	data FindTransportsByOwnerData
}

func (q findTransportsByOwnerQuery) QueryName() string {
	return FindTransportsByOwnerQueryName
}

func (q findTransportsByOwnerQuery) Payload() FindTransportsByOwnerData {
	return q.data
}

func NewFindTransportsByOwnerQuery(data FindTransportsByOwnerData) domain.Query[FindTransportsByOwnerData] {
	return findTransportsByOwnerQuery{data: data}
}
