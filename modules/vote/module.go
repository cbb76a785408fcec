package vote

import (
	"meetspot/core/cache"
	"meetspot/core/database"
	"meetspot/core/middleware"
	eventrepo "meetspot/modules/event/repository"
	"meetspot/modules/vote/controller"
	"meetspot/modules/vote/repository"
	"meetspot/modules/vote/router"
	"meetspot/modules/vote/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the vote module
func Init(g *echo.Group, db database.Database, c cache.Cache, mw *middleware.Middleware) {
	repo := repository.NewVoteRepository(&db)
	eventRepository := eventrepo.NewEventRepository(&db)
	svc := service.NewVoteService(repo, eventRepository, c)
	ctrl := controller.NewVoteController(svc)

	router.NewVoteRouter(ctrl).Register(g, mw)
}
