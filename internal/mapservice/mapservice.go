package mapservice

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/application"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
	"github.com/mateusmacedo/go-pathshare/internal/mapservice/infrastructure"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type MapServiceSlice struct {
	httpHandler *infrastructure.MapHTTPHandler
}

func NewMapServiceSlice(
	buildPathBus pkgApp.QueryBus[pkgDomain.Query[application.BuildPathData], application.BuildPathData, []domain.MapPoint],
	buildUserPathBus pkgApp.QueryBus[pkgDomain.Query[application.BuildUserPathData], application.BuildUserPathData, application.UserRoute],
	builders application.BuilderSource,
	cache domain.RouteCache,
	cars domain.CarPathSource,
	requestTimeout time.Duration,
	logger pkgApp.AppLogger,
) *MapServiceSlice {
	buildPathBus.RegisterHandler(application.BuildPathQueryName, application.NewBuildPathHandler(builders, cache, logger))
	buildUserPathBus.RegisterHandler(application.BuildUserPathQueryName, application.NewBuildUserPathHandler(builders, cars, logger))

	return &MapServiceSlice{
		httpHandler: infrastructure.NewMapHTTPHandler(buildPathBus, buildUserPathBus, requestTimeout),
	}
}

func (s *MapServiceSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
