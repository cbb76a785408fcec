package event

import (
	"meetspot/core/cache"
	"meetspot/core/database"
	"meetspot/core/middleware"
	"meetspot/modules/event/controller"
	"meetspot/modules/event/repository"
	"meetspot/modules/event/router"
	"meetspot/modules/event/service"
	recommendservice "meetspot/modules/recommend/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module
func Init(g *echo.Group, db database.Database, c cache.Cache, mw *middleware.Middleware, recommendSvc recommendservice.RecommendServiceInterface) {
	repo := repository.NewEventRepository(&db)
	lifecycleSvc := service.NewLifecycleService(repo, recommendSvc)
	eventSvc := service.NewEventService(repo, c, lifecycleSvc)
	ctrl := controller.NewEventController(eventSvc, lifecycleSvc)

	router.NewEventRouter(ctrl).Register(g, mw)
}
