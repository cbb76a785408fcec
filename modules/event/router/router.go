package router

import (
	"meetspot/core/middleware"
	"meetspot/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(ctrl *controller.EventController) *EventRouter {
	return &EventRouter{EventController: ctrl}
}

// Register registers event routes
func (r *EventRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	g.POST("/events", r.EventController.CreateEvent)
	g.GET("/events/:id", r.EventController.GetEvent)
	g.GET("/events/code/:code", r.EventController.GetEventByCode)
	g.POST("/events/:id/join", r.EventController.JoinEvent)
	g.GET("/events/:id/participants", r.EventController.ListParticipants)
	g.POST("/events/:id/recommendations/retry", r.EventController.RetryGeneration)
	g.POST("/events/:id/finalize", r.EventController.FinalizeEvent)
}
