package controller

import (
	"meetspot/core/controller"
	"meetspot/core/errors"
	"meetspot/modules/vote/dto"
	"meetspot/modules/vote/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VoteController handles voting HTTP requests
type VoteController struct {
	controller.BaseController
	VoteService service.VoteServiceInterface
}

// NewVoteController creates a new controller
func NewVoteController(svc service.VoteServiceInterface) *VoteController {
	return &VoteController{
		BaseController: controller.NewBaseController(),
		VoteService:    svc,
	}
}

// CastVote handles POST /events/:id/votes
// @Summary Cast or switch a vote
// @Description One vote per participant; voting for another location moves the vote
// @Tags Vote
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CastVoteRequest true "Vote details"
// @Success 200 {object} dto.CastVoteResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /events/{id}/votes [post]
func (c *VoteController) CastVote(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CastVoteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.VoteService.Cast(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Vote recorded")
}

// RemoveVote handles DELETE /events/:id/votes/:recommendationId
// @Summary Remove a vote
// @Tags Vote
// @Produce json
// @Param id path string true "Event ID"
// @Param recommendationId path string true "Recommendation ID"
// @Param nickname query string true "Voter nickname"
// @Success 200 {object} dto.TallyResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/votes/{recommendationId} [delete]
func (c *VoteController) RemoveVote(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	recommendationID, err := uuid.Parse(ctx.Param("recommendationId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid recommendation ID")
	}
	nickname := ctx.QueryParam("nickname")
	if nickname == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Nickname is required")
	}

	result, appErr := c.VoteService.Remove(ctx.Request().Context(), eventID, recommendationID, nickname)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Vote removed")
}

// GetTally handles GET /events/:id/votes
// @Summary Get the vote tally
// @Tags Vote
// @Produce json
// @Param id path string true "Event ID"
// @Param nickname query string false "Viewer nickname, fills the viewer vote fields"
// @Success 200 {object} dto.TallyResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/votes [get]
func (c *VoteController) GetTally(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.VoteService.Tally(ctx.Request().Context(), eventID, ctx.QueryParam("nickname"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
