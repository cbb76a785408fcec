package recommend

import (
	"meetspot/core/cache"
	"meetspot/core/config"
	"meetspot/core/database"
	"meetspot/core/middleware"
	eventrepo "meetspot/modules/event/repository"
	"meetspot/modules/recommend/controller"
	"meetspot/modules/recommend/repository"
	"meetspot/modules/recommend/router"
	"meetspot/modules/recommend/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the recommend module and returns the service so the
// event module can drive generation from its lifecycle.
func Init(g *echo.Group, db database.Database, c cache.Cache, mw *middleware.Middleware) service.RecommendServiceInterface {
	repo := repository.NewRecommendationRepository(&db)
	eventRepository := eventrepo.NewEventRepository(&db)
	generator := service.NewHTTPGenerator(config.Get().Generator)
	svc := service.NewRecommendService(repo, eventRepository, generator, c)
	ctrl := controller.NewRecommendController(svc)

	router.NewRecommendRouter(ctrl).Register(g, mw)

	return svc
}
