package dto

import (
	"time"

	"meetspot/modules/recommend/entity"
)

// GenerateRequest is the request contract with the external
// recommendation generator.
type GenerateRequest struct {
	Title               string             `json:"title"`
	Purpose             string             `json:"purpose"`
	EventTime           *time.Time         `json:"event_time,omitempty"`
	SpecialRequirements string             `json:"special_requirements,omitempty"`
	Participants        []ParticipantInput `json:"participants"`
}

// ParticipantInput is one (nickname, address) pair, in join order
type ParticipantInput struct {
	Nickname string `json:"nickname"`
	Address  string `json:"address"`
}

// CandidateLocation is one ranked candidate returned by the generator
type CandidateLocation struct {
	Rank             int                 `json:"rank"`
	Name             string              `json:"name"`
	Type             string              `json:"type"`
	Description      string              `json:"description"`
	FairnessAnalysis string              `json:"fairness_analysis"`
	Coordinates      *entity.Coordinates `json:"coordinates,omitempty"`
	Distances        []entity.Distance   `json:"distances"`
	Facilities       []string            `json:"facilities"`
	SuitabilityScore float64             `json:"suitability_score"`
}

// GenerateResult is a successful generator response: exactly three
// candidates ranked 1..3.
type GenerateResult struct {
	Analysis        string              `json:"analysis"`
	Recommendations []CandidateLocation `json:"recommendations"`
}

// RecommendationResponse is the API shape of a stored recommendation
type RecommendationResponse struct {
	ID               string            `json:"id"`
	EventID          string            `json:"event_id"`
	LocationName     string            `json:"location_name"`
	LocationType     string            `json:"location_type"`
	Description      string            `json:"description"`
	FairnessAnalysis string            `json:"fairness_analysis"`
	SuitabilityScore float64           `json:"suitability_score"`
	Rank             int               `json:"rank"`
	Facilities       []string          `json:"facilities"`
	Distances        []entity.Distance `json:"distances"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

func ToRecommendationResponse(r *entity.Recommendation) *RecommendationResponse {
	return &RecommendationResponse{
		ID:               r.ID.String(),
		EventID:          r.EventID.String(),
		LocationName:     r.LocationName,
		LocationType:     r.LocationType,
		Description:      r.Description,
		FairnessAnalysis: r.FairnessAnalysis,
		SuitabilityScore: r.SuitabilityScore,
		Rank:             r.Rank,
		Facilities:       r.Facilities,
		Distances:        r.Distances,
		GeneratedAt:      r.GeneratedAt,
	}
}
