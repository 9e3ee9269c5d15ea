package application

import (
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

const (
	BuildPathQueryName     = "BuildPath"
	BuildUserPathQueryName = "BuildUserPath"
)

// BuildPathData carries the waypoints to route.
type BuildPathData struct {
	Points []domain.MapPoint
}

type buildPathQuery struct {
	data BuildPathData
}

func (q buildPathQuery) QueryName() string {
	return BuildPathQueryName
}

func (q buildPathQuery) Payload() BuildPathData {
	return q.data
}

func NewBuildPathQuery(data BuildPathData) pkgDomain.Query[BuildPathData] {
	return buildPathQuery{data: data}
}

// BuildUserPathData asks for a route plus the car journeys available from StartTime.
type BuildUserPathData struct {
	Points    []domain.MapPoint
	StartTime time.Time
}

// UserRoute is the answer to BuildUserPath.
type UserRoute struct {
	Path     []domain.MapPoint   `json:"path"`
	CarPaths []domain.MapCarPath `json:"car_paths"`
}

type buildUserPathQuery struct {
	data BuildUserPathData
}

func (q buildUserPathQuery) QueryName() string {
	return BuildUserPathQueryName
}

func (q buildUserPathQuery) Payload() BuildUserPathData {
	return q.data
}

func NewBuildUserPathQuery(data BuildUserPathData) pkgDomain.Query[BuildUserPathData] {
	return buildUserPathQuery{data: data}
}
