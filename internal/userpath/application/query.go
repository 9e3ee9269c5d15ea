package application

import (
	"time"

	"github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const (
	RecentPathsQueryName = "RecentPaths"
	CarPathsQueryName    = "CarPaths"
)

// PathQueryData serves both path queries. RecentPaths reads Limit, CarPaths reads Since.
type PathQueryData struct {
	Limit int
	Since time.Time
}

type pathQuery struct {
	name string
	data PathQueryData
}

func (q pathQuery) QueryName() string {
	return q.name
}

func (q pathQuery) Payload() PathQueryData {
	return q.data
}

func NewRecentPathsQuery(limit int) domain.Query[PathQueryData] {
	return pathQuery{name: RecentPathsQueryName, data: PathQueryData{Limit: limit}}
}

func NewCarPathsQuery(since time.Time) domain.Query[PathQueryData] {
	return pathQuery{name: CarPathsQueryName, data: PathQueryData{Since: since}}
}
