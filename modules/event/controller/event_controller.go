package controller

import (
	"meetspot/core/controller"
	"meetspot/core/errors"
	"meetspot/modules/event/dto"
	"meetspot/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService     service.EventServiceInterface
	LifecycleService service.LifecycleServiceInterface
}

// NewEventController creates a new controller
func NewEventController(eventSvc service.EventServiceInterface, lifecycleSvc service.LifecycleServiceInterface) *EventController {
	return &EventController{
		BaseController:   controller.NewBaseController(),
		EventService:     eventSvc,
		LifecycleService: lifecycleSvc,
	}
}

// CreateEvent handles POST /events
// @Summary Create event
// @Description Creates an event; the creator joins as the first participant
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.EventService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created")
}

// GetEvent handles GET /events/:id
// @Summary Get event
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventByCode handles GET /events/code/:code
// @Summary Get event by share code
// @Tags Event
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/code/{code} [get]
func (c *EventController) GetEventByCode(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Share code is required")
	}

	result, appErr := c.EventService.GetByShortCode(ctx.Request().Context(), code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// JoinEvent handles POST /events/:id/join
// @Summary Join event
// @Description Admits a participant; nickname collisions get a numeric suffix
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.JoinEventRequest true "Participant details"
// @Success 200 {object} dto.JoinEventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /events/{id}/join [post]
func (c *EventController) JoinEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.JoinEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.EventService.Join(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined event")
}

// ListParticipants handles GET /events/:id/participants
// @Summary List participants
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.ParticipantResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/participants [get]
func (c *EventController) ListParticipants(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.ListParticipants(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// RetryGeneration handles POST /events/:id/recommendations/retry
// @Summary Retry recommendation generation
// @Description Creator-only retry after a failed generation attempt
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.RetryGenerationRequest true "Caller nickname"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Failure 502 {object} controller.ErrorResponse
// @Router /events/{id}/recommendations/retry [post]
func (c *EventController) RetryGeneration(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.RetryGenerationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.LifecycleService.RetryGeneration(ctx.Request().Context(), eventID, req.Nickname); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Recommendations generated")
}

// FinalizeEvent handles POST /events/:id/finalize
// @Summary Finalize event
// @Description Creator-only; records the winning location and closes voting
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.FinalizeRequest true "Winning recommendation"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /events/{id}/finalize [post]
func (c *EventController) FinalizeEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.FinalizeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.LifecycleService.Finalize(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event finalized")
}
