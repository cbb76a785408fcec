package service

import (
	"context"
	"errors"
	"time"

	"meetspot/core/cache"
	apperrors "meetspot/core/errors"
	"meetspot/core/logger"
	evententity "meetspot/modules/event/entity"
	eventrepo "meetspot/modules/event/repository"
	"meetspot/modules/recommend/dto"
	"meetspot/modules/recommend/entity"
	"meetspot/modules/recommend/repository"

	"github.com/google/uuid"
)

// RecommendService handles recommendation business logic
type RecommendService struct {
	repo      repository.RecommendationRepositoryInterface
	eventRepo eventrepo.EventRepositoryInterface
	generator RecommendationGenerator
	cache     cache.Cache
}

// RecommendServiceInterface defines the service contract
type RecommendServiceInterface interface {
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]dto.RecommendationResponse, *apperrors.AppError)
	GetRecommendation(ctx context.Context, id uuid.UUID) (*entity.Recommendation, *apperrors.AppError)
	GenerateForEvent(ctx context.Context, event *evententity.Event, participants []evententity.Participant) *apperrors.AppError
}

// NewRecommendService creates a new recommend service
func NewRecommendService(repo repository.RecommendationRepositoryInterface, eventRepo eventrepo.EventRepositoryInterface, generator RecommendationGenerator, c cache.Cache) RecommendServiceInterface {
	return &RecommendService{
		repo:      repo,
		eventRepo: eventRepo,
		generator: generator,
		cache:     c,
	}
}

// ListByEventID returns the stored recommendations for a live event
func (s *RecommendService) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]dto.RecommendationResponse, *apperrors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	recs, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to list recommendations", err)
	}

	result := make([]dto.RecommendationResponse, 0, len(recs))
	for i := range recs {
		result = append(result, *dto.ToRecommendationResponse(&recs[i]))
	}
	return result, nil
}

// GetRecommendation returns a single recommendation, nil error + nil
// value never happens: absence is NOT_FOUND.
func (s *RecommendService) GetRecommendation(ctx context.Context, id uuid.UUID) (*entity.Recommendation, *apperrors.AppError) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get recommendation", err)
	}
	if rec == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Recommendation not found", nil)
	}
	return rec, nil
}

// GenerateForEvent runs one generation attempt for an event already in
// ready: build the request from join-ordered participants, call the
// generator, and persist the batch atomically while flipping
// ready -> voting. A losing concurrent attempt is reported as CONFLICT
// with nothing written.
func (s *RecommendService) GenerateForEvent(ctx context.Context, event *evententity.Event, participants []evententity.Participant) *apperrors.AppError {
	req := &dto.GenerateRequest{
		Title:        event.Title,
		Purpose:      string(event.Purpose),
		EventTime:    event.EventTime,
		Participants: make([]dto.ParticipantInput, 0, len(participants)),
	}
	if event.SpecialRequirements != nil {
		req.SpecialRequirements = *event.SpecialRequirements
	}
	for _, p := range participants {
		req.Participants = append(req.Participants, dto.ParticipantInput{
			Nickname: p.Nickname,
			Address:  p.Address,
		})
	}

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		return classifyGeneratorError(err)
	}

	now := time.Now()
	recs := make([]entity.Recommendation, 0, len(result.Recommendations))
	for _, c := range result.Recommendations {
		recs = append(recs, entity.Recommendation{
			ID:               uuid.New(),
			EventID:          event.ID,
			LocationName:     c.Name,
			LocationType:     c.Type,
			Description:      c.Description,
			FairnessAnalysis: c.FairnessAnalysis,
			SuitabilityScore: c.SuitabilityScore,
			Rank:             c.Rank,
			Facilities:       c.Facilities,
			Distances:        c.Distances,
			GeneratedAt:      now,
		})
	}

	flipped, err := s.repo.ReplaceForEvent(ctx, event.ID, recs)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to persist recommendations", err)
	}
	if !flipped {
		return apperrors.NewAppError(apperrors.ErrConflict, "Recommendations were already generated for this event", nil)
	}

	// Replacing the batch cascades away old votes; drop the cached tally.
	if cacheErr := s.cache.DelTally(ctx, event.ID.String()); cacheErr != nil {
		logger.Warn("RecommendService:GenerateForEvent:CacheDel", "error", cacheErr)
	}

	logger.Info("RecommendService:GenerateForEvent:Success",
		"event_id", event.ID.String(),
		"recommendations", len(recs),
	)
	return nil
}

func classifyGeneratorError(err error) *apperrors.AppError {
	var invalidInput *InvalidInputError
	switch {
	case errors.As(err, &invalidInput):
		return apperrors.NewAppError(apperrors.ErrGenerationFailed, invalidInput.Message, err).
			WithDetails(map[string]any{
				"error_code":  invalidInput.Code,
				"suggestions": invalidInput.Suggestions,
			})
	case errors.Is(err, ErrMissingCredentials):
		return apperrors.NewAppError(apperrors.ErrGenerationFailed, "Recommendation service is not configured", err)
	case errors.Is(err, ErrEmptyResult):
		return apperrors.NewAppError(apperrors.ErrGenerationFailed, "Recommendation service returned no results", err)
	default:
		return apperrors.NewAppError(apperrors.ErrGenerationFailed, "Recommendation generation failed", err)
	}
}
