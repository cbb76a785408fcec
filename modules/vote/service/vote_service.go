package service

import (
	"context"
	"encoding/json"
	"errors"

	"meetspot/core/cache"
	apperrors "meetspot/core/errors"
	"meetspot/core/logger"
	evententity "meetspot/modules/event/entity"
	eventrepo "meetspot/modules/event/repository"
	"meetspot/modules/vote/dto"
	"meetspot/modules/vote/repository"

	"github.com/google/uuid"
)

// VoteService handles voting business logic
type VoteService struct {
	repo      repository.VoteRepositoryInterface
	eventRepo eventrepo.EventRepositoryInterface
	cache     cache.Cache
}

// VoteServiceInterface defines the service contract
type VoteServiceInterface interface {
	Cast(ctx context.Context, eventID uuid.UUID, req *dto.CastVoteRequest) (*dto.CastVoteResponse, *apperrors.AppError)
	Remove(ctx context.Context, eventID uuid.UUID, recommendationID uuid.UUID, nickname string) (*dto.TallyResponse, *apperrors.AppError)
	Tally(ctx context.Context, eventID uuid.UUID, viewer string) (*dto.TallyResponse, *apperrors.AppError)
}

// NewVoteService creates a new vote service
func NewVoteService(repo repository.VoteRepositoryInterface, eventRepo eventrepo.EventRepositoryInterface, c cache.Cache) VoteServiceInterface {
	return &VoteService{
		repo:      repo,
		eventRepo: eventRepo,
		cache:     c,
	}
}

// Cast records or switches the caller's vote. Voting again for the
// same recommendation is rejected, with the unchanged tally attached
// so clients can resync without a second request.
func (s *VoteService) Cast(ctx context.Context, eventID uuid.UUID, req *dto.CastVoteRequest) (*dto.CastVoteResponse, *apperrors.AppError) {
	if appErr := s.requireVoter(ctx, eventID, req.Nickname); appErr != nil {
		return nil, appErr
	}

	outcome, err := s.repo.Cast(ctx, eventID, req.Nickname, req.RecommendationID)
	if err != nil {
		return nil, mapVoteError(err)
	}

	if outcome != repository.CastUnchanged {
		s.invalidateTally(ctx, eventID)
	}

	tally, appErr := s.freshTally(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	s.applyViewer(ctx, tally, eventID, req.Nickname)

	if outcome == repository.CastUnchanged {
		return nil, apperrors.NewAppError(apperrors.ErrAlreadyVoted, "You already voted for this location", nil).
			WithDetails(map[string]any{"tally": tally})
	}

	logger.Info("VoteService:Cast:Success",
		"event_id", eventID.String(),
		"voter", req.Nickname,
		"outcome", outcome.String(),
	)
	return &dto.CastVoteResponse{
		Outcome: outcome.String(),
		Tally:   tally,
	}, nil
}

// Remove withdraws the caller's vote for a recommendation
func (s *VoteService) Remove(ctx context.Context, eventID uuid.UUID, recommendationID uuid.UUID, nickname string) (*dto.TallyResponse, *apperrors.AppError) {
	if appErr := s.requireVoter(ctx, eventID, nickname); appErr != nil {
		return nil, appErr
	}

	removed, err := s.repo.Remove(ctx, eventID, nickname, recommendationID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to remove vote", err)
	}
	if !removed {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "No matching vote to remove", nil)
	}

	s.invalidateTally(ctx, eventID)
	return s.freshTally(ctx, eventID)
}

// Tally returns the current vote counts. Counts are cached briefly,
// which bounds DB load while clients poll during voting; the viewer
// fields are filled per request and never cached.
func (s *VoteService) Tally(ctx context.Context, eventID uuid.UUID, viewer string) (*dto.TallyResponse, *apperrors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}

	if payload, cacheErr := s.cache.GetTally(ctx, eventID.String()); cacheErr == nil && payload != nil {
		var tally dto.TallyResponse
		if json.Unmarshal(payload, &tally) == nil {
			s.applyViewer(ctx, &tally, eventID, viewer)
			return &tally, nil
		}
	}

	tally, appErr := s.freshTally(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if payload, marshalErr := json.Marshal(tally); marshalErr == nil {
		if cacheErr := s.cache.SetTally(ctx, eventID.String(), payload); cacheErr != nil {
			logger.Warn("VoteService:Tally:CacheSet", "error", cacheErr)
		}
	}
	s.applyViewer(ctx, tally, eventID, viewer)
	return tally, nil
}

func (s *VoteService) freshTally(ctx context.Context, eventID uuid.UUID) (*dto.TallyResponse, *apperrors.AppError) {
	rows, err := s.repo.TallyByEventID(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to tally votes", err)
	}

	participants, err := s.eventRepo.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}

	tally := &dto.TallyResponse{
		EventID:          eventID,
		ParticipantCount: len(participants),
		Entries:          make([]dto.TallyEntry, 0, len(rows)),
	}
	for _, row := range rows {
		tally.TotalVotes += row.Votes
		tally.Entries = append(tally.Entries, dto.TallyEntry{
			RecommendationID: row.RecommendationID,
			Rank:             row.Rank,
			LocationName:     row.LocationName,
			Votes:            row.Votes,
			Voters:           append([]string{}, row.Voters...),
		})
	}
	return tally, nil
}

// applyViewer fills the viewer-specific tally fields. Best effort: a
// lookup failure leaves them zeroed rather than failing the read.
func (s *VoteService) applyViewer(ctx context.Context, tally *dto.TallyResponse, eventID uuid.UUID, viewer string) {
	if viewer == "" {
		return
	}
	vote, err := s.repo.GetByVoter(ctx, eventID, viewer)
	if err != nil || vote == nil {
		return
	}
	tally.HasViewerVoted = true
	recID := vote.RecommendationID
	tally.ViewerVote = &recID
}

// requireVoter checks the event is live, in voting, and the caller is
// one of its participants.
func (s *VoteService) requireVoter(ctx context.Context, eventID uuid.UUID, nickname string) *apperrors.AppError {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", nil)
	}
	if event.Status != evententity.EventStatusVoting {
		return apperrors.NewAppError(apperrors.ErrConflict, "Event is not in the voting phase", nil).
			WithDetails(map[string]any{"status": string(event.Status)})
	}

	participants, err := s.eventRepo.GetParticipants(ctx, eventID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to get participants", err)
	}
	for _, p := range participants {
		if p.Nickname == nickname {
			return nil
		}
	}
	return apperrors.NewAppError(apperrors.ErrNotAuthorized, "Only event participants can vote", nil)
}

func (s *VoteService) invalidateTally(ctx context.Context, eventID uuid.UUID) {
	if err := s.cache.DelTally(ctx, eventID.String()); err != nil {
		logger.Warn("VoteService:invalidateTally", "error", err)
	}
}

func mapVoteError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, "Event not found", err)
	case errors.Is(err, repository.ErrVotingClosed):
		return apperrors.NewAppError(apperrors.ErrConflict, "Event is not accepting votes", err)
	case errors.Is(err, repository.ErrRecommendationNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, "Recommendation not found for this event", err)
	default:
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to cast vote", err)
	}
}
