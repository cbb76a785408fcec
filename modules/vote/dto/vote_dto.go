package dto

import (
	"github.com/google/uuid"
)

// CastVoteRequest is the payload for casting or switching a vote
type CastVoteRequest struct {
	Nickname         string    `json:"nickname" validate:"required,min=1,max=50"`
	RecommendationID uuid.UUID `json:"recommendation_id" validate:"required"`
}

// TallyEntry is one recommendation's share of the tally
type TallyEntry struct {
	RecommendationID uuid.UUID `json:"recommendation_id"`
	Rank             int       `json:"rank"`
	LocationName     string    `json:"location_name"`
	Votes            int       `json:"votes"`
	Voters           []string  `json:"voters"`
}

// TallyResponse is the full vote tally for an event. The viewer fields
// are filled per request when the caller identifies themselves; they
// are never cached.
type TallyResponse struct {
	EventID          uuid.UUID    `json:"event_id"`
	TotalVotes       int          `json:"total_votes"`
	ParticipantCount int          `json:"participant_count"`
	Entries          []TallyEntry `json:"entries"`
	HasViewerVoted   bool         `json:"has_viewer_voted"`
	ViewerVote       *uuid.UUID   `json:"viewer_vote,omitempty"`
}

// CastVoteResponse reports the cast outcome with the resulting tally
type CastVoteResponse struct {
	Outcome string         `json:"outcome"`
	Tally   *TallyResponse `json:"tally"`
}
