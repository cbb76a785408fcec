package router

import (
	"meetspot/core/middleware"
	"meetspot/modules/recommend/controller"

	"github.com/labstack/echo/v4"
)

// RecommendRouter handles recommendation routes
type RecommendRouter struct {
	RecommendController *controller.RecommendController
}

// NewRecommendRouter creates a new router
func NewRecommendRouter(ctrl *controller.RecommendController) *RecommendRouter {
	return &RecommendRouter{RecommendController: ctrl}
}

// Register registers recommendation routes
func (r *RecommendRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	g.GET("/events/:id/recommendations", r.RecommendController.ListRecommendations)
}
