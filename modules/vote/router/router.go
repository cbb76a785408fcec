package router

import (
	"meetspot/core/middleware"
	"meetspot/modules/vote/controller"

	"github.com/labstack/echo/v4"
)

// VoteRouter handles voting routes
type VoteRouter struct {
	VoteController *controller.VoteController
}

// NewVoteRouter creates a new router
func NewVoteRouter(ctrl *controller.VoteController) *VoteRouter {
	return &VoteRouter{VoteController: ctrl}
}

// Register registers voting routes
func (r *VoteRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	g.POST("/events/:id/votes", r.VoteController.CastVote)
	g.GET("/events/:id/votes", r.VoteController.GetTally)
	g.DELETE("/events/:id/votes/:recommendationId", r.VoteController.RemoveVote)
}
