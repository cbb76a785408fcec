package dto

import (
	"time"

	"meetspot/modules/event/entity"

	"github.com/google/uuid"
)

// CreateEventRequest is the payload for creating a new event
type CreateEventRequest struct {
	Title                string     `json:"title" validate:"required,min=1,max=200"`
	Purpose              string     `json:"purpose" validate:"required,oneof=dining coffee meeting other"`
	EventTime            *time.Time `json:"event_time,omitempty"`
	SpecialRequirements  *string    `json:"special_requirements,omitempty" validate:"omitempty,max=500"`
	ExpectedParticipants int       `json:"expected_participants" validate:"required,min=2,max=20"`
	CreatorNickname      string    `json:"creator_nickname" validate:"required,min=1,max=50"`
	CreatorAddress       string    `json:"creator_address" validate:"required,min=1,max=300"`
}

// JoinEventRequest is the payload for joining an event
type JoinEventRequest struct {
	Nickname string `json:"nickname" validate:"required,min=1,max=50"`
	Address  string `json:"address" validate:"required,min=1,max=300"`
}

// RetryGenerationRequest identifies the caller for a manual retry
type RetryGenerationRequest struct {
	Nickname string `json:"nickname" validate:"required,min=1,max=50"`
}

// FinalizeRequest identifies the caller and the winning location
type FinalizeRequest struct {
	Nickname         string    `json:"nickname" validate:"required,min=1,max=50"`
	RecommendationID uuid.UUID `json:"recommendation_id" validate:"required"`
}

// ParticipantResponse is the public view of a participant
type ParticipantResponse struct {
	Nickname  string    `json:"nickname"`
	Address   string    `json:"address"`
	IsCreator bool      `json:"is_creator"`
	JoinedAt  time.Time `json:"joined_at"`
}

// EventResponse is the public view of an event. Status carries the
// derived display status, so a finalized event past its TTL reads as
// expired without a stored transition.
type EventResponse struct {
	ID                   uuid.UUID             `json:"id"`
	ShortCode            string                `json:"short_code"`
	Slug                 string                `json:"slug"`
	Title                string                `json:"title"`
	Purpose              string                `json:"purpose"`
	EventTime            *time.Time            `json:"event_time,omitempty"`
	SpecialRequirements  *string               `json:"special_requirements,omitempty"`
	ExpectedParticipants int                   `json:"expected_participants"`
	ParticipantCount     int                   `json:"participant_count"`
	Status               string                `json:"status"`
	FinalLocationID      *uuid.UUID            `json:"final_location_id,omitempty"`
	VotingStartedAt      *time.Time            `json:"voting_started_at,omitempty"`
	VotingEndedAt        *time.Time            `json:"voting_ended_at,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	ExpiresAt            time.Time             `json:"expires_at"`
	Participants         []ParticipantResponse `json:"participants"`
}

// JoinEventResponse reports the admission outcome, including whether
// the requested nickname had to be adjusted to stay unique.
type JoinEventResponse struct {
	EventID          uuid.UUID `json:"event_id"`
	Nickname         string    `json:"nickname"`
	NicknameModified bool      `json:"nickname_modified"`
	OriginalNickname string    `json:"original_nickname,omitempty"`
	ParticipantCount int       `json:"participant_count"`
	EventStatus      string    `json:"event_status"`
	// ShouldGenerateRecommendations is true for the join that completed
	// the group; generation runs in the background, so clients use this
	// to start polling for recommendations.
	ShouldGenerateRecommendations bool `json:"should_generate_recommendations"`
}

// ToParticipantResponse converts a participant entity
func ToParticipantResponse(p *entity.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		Nickname:  p.Nickname,
		Address:   p.Address,
		IsCreator: p.IsCreator,
		JoinedAt:  p.JoinedAt,
	}
}

// ToEventResponse converts an event entity with its participants
func ToEventResponse(event *entity.Event, participants []entity.Participant, now time.Time) *EventResponse {
	resp := &EventResponse{
		ID:                   event.ID,
		ShortCode:            event.ShortCode,
		Slug:                 event.Slug,
		Title:                event.Title,
		Purpose:              string(event.Purpose),
		EventTime:            event.EventTime,
		SpecialRequirements:  event.SpecialRequirements,
		ExpectedParticipants: event.ExpectedParticipants,
		ParticipantCount:     len(participants),
		Status:               string(event.DisplayStatus(now)),
		FinalLocationID:      event.FinalLocationID,
		VotingStartedAt:      event.VotingStartedAt,
		VotingEndedAt:        event.VotingEndedAt,
		CreatedAt:            event.CreatedAt,
		ExpiresAt:            event.ExpiresAt,
		Participants:         make([]ParticipantResponse, 0, len(participants)),
	}
	for i := range participants {
		resp.Participants = append(resp.Participants, *ToParticipantResponse(&participants[i]))
	}
	return resp
}
