package service

import (
	"context"
	"errors"
	"time"

	"meetspot/core/cache"
	"meetspot/core/config"
	"meetspot/core/constants"
	apperrors "meetspot/core/errors"
	"meetspot/core/logger"
	"meetspot/core/utils"
	"meetspot/modules/event/dto"
	"meetspot/modules/event/entity"
	"meetspot/modules/event/repository"

	"github.com/google/uuid"
)

const shareCodeMaxAttempts = 5

// EventService handles event business logic
type EventService struct {
	repo      repository.EventRepositoryInterface
	cache     cache.Cache
	lifecycle LifecycleServiceInterface
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *apperrors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *apperrors.AppError)
	GetByShortCode(ctx context.Context, code string) (*dto.EventResponse, *apperrors.AppError)
	Join(ctx context.Context, eventID uuid.UUID, req *dto.JoinEventRequest) (*dto.JoinEventResponse, *apperrors.AppError)
	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]dto.ParticipantResponse, *apperrors.AppError)
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface, c cache.Cache, lifecycle LifecycleServiceInterface) EventServiceInterface {
	return &EventService{
		repo:      repo,
		cache:     c,
		lifecycle: lifecycle,
	}
}

// Create creates a new event with its creator as the first participant.
// The share code is regenerated on the rare collision.
func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *apperrors.AppError) {
	purpose := entity.EventPurpose(req.Purpose)
	if !purpose.IsValid() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Unknown event purpose", nil)
	}

	ttl := time.Duration(constants.EventTTLDays) * 24 * time.Hour
	if cfg, ok := config.GetSafe(); ok && cfg.Event.TTLDays > 0 {
		ttl = cfg.Event.TTL()
	}

	now := time.Now()
	event := &entity.Event{
		ID:                   uuid.New(),
		Slug:                 utils.Slugify(req.Title),
		Title:                req.Title,
		Purpose:              purpose,
		EventTime:            req.EventTime,
		SpecialRequirements:  req.SpecialRequirements,
		ExpectedParticipants: req.ExpectedParticipants,
		Status:               entity.EventStatusWaiting,
		CreatedAt:            now,
		ExpiresAt:            now.Add(ttl),
	}
	creator := &entity.Participant{
		Nickname: req.CreatorNickname,
		Address:  req.CreatorAddress,
	}

	var lastErr error
	for i := 0; i < shareCodeMaxAttempts; i++ {
		code, err := utils.GenerateShareCode()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to generate share code", err)
		}
		event.ShortCode = code

		lastErr = s.repo.Create(ctx, event, creator)
		if lastErr == nil {
			break
		}
		if !errors.Is(lastErr, repository.ErrShortCodeTaken) {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to create event", lastErr)
		}
	}
	if lastErr != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to create event", lastErr)
	}

	if err := s.cache.SetEventIDForCode(ctx, event.ShortCode, event.ID.String()); err != nil {
		logger.Warn("EventService:Create:CacheSet", "error", err)
	}

	logger.Info("EventService:Create:Success",
		"event_id", event.ID.String(),
		"short_code", event.ShortCode,
		"expected_participants", event.ExpectedParticipants,
	)
	return dto.ToEventResponse(event, []entity.Participant{*creator}, now), nil
}

// GetByID returns the event with its participants
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *apperrors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}
	return dto.ToEventResponse(event, participants, time.Now()), nil
}

// GetByShortCode resolves a share code to its event. The code -> id
// mapping is immutable, so a cache hit skips one lookup.
func (s *EventService) GetByShortCode(ctx context.Context, code string) (*dto.EventResponse, *apperrors.AppError) {
	if cached, err := s.cache.GetEventIDForCode(ctx, code); err == nil && cached != "" {
		if id, parseErr := uuid.Parse(cached); parseErr == nil {
			return s.GetByID(ctx, id)
		}
	}

	event, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	if cacheErr := s.cache.SetEventIDForCode(ctx, code, event.ID.String()); cacheErr != nil {
		logger.Warn("EventService:GetByShortCode:CacheSet", "error", cacheErr)
	}

	participants, err := s.repo.GetParticipants(ctx, event.ID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}
	return dto.ToEventResponse(event, participants, time.Now()), nil
}

// Join admits a participant. On a nickname collision the requested
// name gets a numeric suffix; the repository retries cover the window
// where another joiner grabs the suffixed name between our read and
// insert. Crossing the participant threshold kicks off recommendation
// generation in the background.
func (s *EventService) Join(ctx context.Context, eventID uuid.UUID, req *dto.JoinEventRequest) (*dto.JoinEventResponse, *apperrors.AppError) {
	existing, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.Nickname] = true
	}

	var (
		participant *entity.Participant
		count       int
		becameReady bool
		modified    bool
	)
	for attempt := 0; attempt < 3; attempt++ {
		nickname, wasModified := uniqueNickname(req.Nickname, taken)
		participant = &entity.Participant{
			EventID:  eventID,
			Nickname: nickname,
			Address:  req.Address,
		}

		count, becameReady, err = s.repo.AdmitParticipant(ctx, participant)
		if err == nil {
			modified = wasModified
			break
		}
		if errors.Is(err, repository.ErrNicknameTaken) {
			taken[nickname] = true
			continue
		}
		return nil, mapAdmitError(err)
	}
	if err != nil {
		return nil, mapAdmitError(err)
	}

	status := entity.EventStatusWaiting
	if becameReady {
		status = entity.EventStatusReady
		s.lifecycle.TriggerAutoGeneration(eventID)
	}

	logger.Info("EventService:Join:Success",
		"event_id", eventID.String(),
		"nickname", participant.Nickname,
		"participant_count", count,
		"became_ready", becameReady,
	)

	resp := &dto.JoinEventResponse{
		EventID:                       eventID,
		Nickname:                      participant.Nickname,
		NicknameModified:              modified,
		ParticipantCount:              count,
		EventStatus:                   string(status),
		ShouldGenerateRecommendations: becameReady,
	}
	if modified {
		resp.OriginalNickname = req.Nickname
	}
	return resp, nil
}

// ListParticipants returns participants in join order
func (s *EventService) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]dto.ParticipantResponse, *apperrors.AppError) {
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

	result := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		result = append(result, *dto.ToParticipantResponse(&participants[i]))
	}
	return result, nil
}

func mapAdmitError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", err)
	case errors.Is(err, repository.ErrEventFull):
		return apperrors.NewAppError(apperrors.ErrConflict, "Event is no longer accepting participants", err)
	case errors.Is(err, repository.ErrNicknameTaken):
		return apperrors.NewAppError(apperrors.ErrConflict, "Nickname is already taken", err)
	default:
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to join event", err)
	}
}
