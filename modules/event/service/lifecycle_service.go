package service

import (
	"context"
	"time"

	"meetspot/core/constants"
	apperrors "meetspot/core/errors"
	"meetspot/core/logger"
	"meetspot/modules/event/dto"
	"meetspot/modules/event/entity"
	"meetspot/modules/event/repository"
	recommendservice "meetspot/modules/recommend/service"

	"github.com/google/uuid"
)

// LifecycleService drives the ready -> voting -> finalized portion of
// the event lifecycle.
type LifecycleService struct {
	repo         repository.EventRepositoryInterface
	recommendSvc recommendservice.RecommendServiceInterface
}

// LifecycleServiceInterface defines the lifecycle contract
type LifecycleServiceInterface interface {
	TriggerAutoGeneration(eventID uuid.UUID)
	RetryGeneration(ctx context.Context, eventID uuid.UUID, nickname string) *apperrors.AppError
	Finalize(ctx context.Context, eventID uuid.UUID, req *dto.FinalizeRequest) (*dto.EventResponse, *apperrors.AppError)
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(repo repository.EventRepositoryInterface, recommendSvc recommendservice.RecommendServiceInterface) LifecycleServiceInterface {
	return &LifecycleService{
		repo:         repo,
		recommendSvc: recommendSvc,
	}
}

// TriggerAutoGeneration starts one generation attempt in the
// background. It is fired by the admission that flipped the event to
// ready, so at most one auto attempt exists per event; the request
// context is deliberately not inherited because the joiner's response
// does not wait for generation.
func (s *LifecycleService) TriggerAutoGeneration(eventID uuid.UUID) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), constants.GeneratorTimeout)
		defer cancel()

		if appErr := s.generate(bgCtx, eventID); appErr != nil {
			// The event stays in ready; the creator can retry.
			logger.Warn("LifecycleService:TriggerAutoGeneration:Failed",
				"event_id", eventID.String(),
				"error", appErr.Error(),
			)
		}
	}()
}

// RetryGeneration runs a creator-initiated generation attempt. Only
// valid while the event sits in ready, meaning a previous attempt
// failed before persisting anything.
func (s *LifecycleService) RetryGeneration(ctx context.Context, eventID uuid.UUID, nickname string) *apperrors.AppError {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}
	if !entity.IsCreator(participants, nickname) {
		return apperrors.NewAppError(apperrors.ErrNotAuthorized, "Only the event creator can retry generation", nil)
	}
	if event.Status != entity.EventStatusReady {
		return apperrors.NewAppError(apperrors.ErrConflict, "Event is not awaiting recommendation generation", nil).
			WithDetails(map[string]any{"status": string(event.Status)})
	}

	return s.recommendSvc.GenerateForEvent(ctx, event, participants)
}

func (s *LifecycleService) generate(ctx context.Context, eventID uuid.UUID) *apperrors.AppError {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}
	if event.Status != entity.EventStatusReady {
		return apperrors.NewAppError(apperrors.ErrConflict, "Event is not awaiting recommendation generation", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}

	return s.recommendSvc.GenerateForEvent(ctx, event, participants)
}

// Finalize closes voting by recording the winning recommendation.
// Creator-only; the status flip is conditional in the repository so a
// second finalize, or one racing a regeneration, loses cleanly.
func (s *LifecycleService) Finalize(ctx context.Context, eventID uuid.UUID, req *dto.FinalizeRequest) (*dto.EventResponse, *apperrors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}
	if !entity.IsCreator(participants, req.Nickname) {
		return nil, apperrors.NewAppError(apperrors.ErrNotAuthorized, "Only the event creator can finalize", nil)
	}
	if event.Status != entity.EventStatusVoting {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "Event is not in the voting phase", nil).
			WithDetails(map[string]any{"status": string(event.Status)})
	}

	finalized, err := s.repo.FinalizeEvent(ctx, eventID, req.RecommendationID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to finalize event", err)
	}
	if !finalized {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "Event could not be finalized with this recommendation", nil)
	}

	logger.Info("LifecycleService:Finalize:Success",
		"event_id", eventID.String(),
		"recommendation_id", req.RecommendationID.String(),
	)

	// Re-read for the response so final_location_id and timestamps
	// reflect the committed state.
	event, err = s.repo.GetByID(ctx, eventID)
	if err != nil || event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to reload event", err)
	}
	return dto.ToEventResponse(event, participants, time.Now()), nil
}
