package controller

import (
	"meetspot/core/controller"
	"meetspot/core/errors"
	"meetspot/modules/recommend/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecommendController handles recommendation HTTP requests
type RecommendController struct {
	controller.BaseController
	RecommendService service.RecommendServiceInterface
}

// NewRecommendController creates a new controller
func NewRecommendController(svc service.RecommendServiceInterface) *RecommendController {
	return &RecommendController{
		BaseController:   controller.NewBaseController(),
		RecommendService: svc,
	}
}

// ListRecommendations handles GET /events/:id/recommendations
// @Summary List recommendations
// @Description Returns the generated candidate locations for an event
// @Tags Recommendation
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.RecommendationResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/recommendations [get]
func (c *RecommendController) ListRecommendations(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RecommendService.ListByEventID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
