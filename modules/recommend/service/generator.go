package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"meetspot/core/config"
	"meetspot/core/constants"
	"meetspot/core/logger"
	"meetspot/modules/recommend/dto"
	"meetspot/modules/recommend/entity"
)

// Generator failure modes visible to the lifecycle. Transient
// transport problems never surface here: the client substitutes a
// generic fallback set instead, so callers only see real failures.
var (
	ErrMissingCredentials = errors.New("generator credentials not configured")
	ErrEmptyResult        = errors.New("generator returned no recommendations")
)

// InvalidInputError is the generator's structured rejection, e.g.
// addresses that cannot be resolved or are not mutually local.
type InvalidInputError struct {
	Code        string
	Message     string
	Suggestions []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("generator rejected input (%s): %s", e.Code, e.Message)
}

// RecommendationGenerator converts event metadata plus participant
// addresses into exactly three ranked location candidates.
type RecommendationGenerator interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error)
}

// wireResponse is the generator's HTTP response envelope: either a
// success payload or a structured error, discriminated by "error".
type wireResponse struct {
	Error        bool                    `json:"error"`
	ErrorCode    string                  `json:"error_code"`
	ErrorMessage string                  `json:"error_message"`
	Suggestions  []string                `json:"suggestions"`
	Analysis     string                  `json:"analysis"`
	Candidates   []dto.CandidateLocation `json:"recommendations"`
}

// HTTPGenerator calls the recommendation generator service over HTTP
type HTTPGenerator struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPGenerator(cfg config.GeneratorConfig) *HTTPGenerator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.GeneratorTimeout
	}
	return &HTTPGenerator{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	if g.apiKey == "" || g.url == "" {
		return nil, ErrMissingCredentials
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("HTTPGenerator:Generate transport failure, using fallback", "error", err)
		return fallbackResult(req), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrMissingCredentials
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("HTTPGenerator:Generate read failure, using fallback", "error", err)
		return fallbackResult(req), nil
	}

	var wire wireResponse
	if jsonErr := json.Unmarshal(raw, &wire); jsonErr != nil {
		logger.Warn("HTTPGenerator:Generate malformed response, using fallback", "error", jsonErr, "status", resp.StatusCode)
		return fallbackResult(req), nil
	}

	if wire.Error {
		return nil, &InvalidInputError{
			Code:        wire.ErrorCode,
			Message:     wire.ErrorMessage,
			Suggestions: wire.Suggestions,
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Warn("HTTPGenerator:Generate upstream failure, using fallback", "status", resp.StatusCode)
		return fallbackResult(req), nil
	}

	if len(wire.Candidates) == 0 {
		return nil, ErrEmptyResult
	}

	candidates, err := normalizeCandidates(wire.Candidates)
	if err != nil {
		return nil, err
	}

	return &dto.GenerateResult{
		Analysis:        wire.Analysis,
		Recommendations: candidates,
	}, nil
}

// normalizeCandidates enforces the exactly-3/ranks-1..3 contract.
func normalizeCandidates(candidates []dto.CandidateLocation) ([]dto.CandidateLocation, error) {
	if len(candidates) < constants.RecommendationCount {
		return nil, ErrEmptyResult
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	candidates = candidates[:constants.RecommendationCount]
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates, nil
}

// fallbackResult is the non-personalized substitute used when the
// upstream model is unreachable. Distances are unknown; the candidates
// are generic city-center meeting spots.
func fallbackResult(req *dto.GenerateRequest) *dto.GenerateResult {
	distances := make([]entity.Distance, 0, len(req.Participants))
	for _, p := range req.Participants {
		distances = append(distances, entity.Distance{
			Participant: p.Nickname,
			Estimate:    "unknown",
			Transport:   "public transit",
			Time:        "unknown",
		})
	}

	candidates := []dto.CandidateLocation{
		{
			Rank:             1,
			Name:             "Central Station Cafe",
			Type:             "cafe",
			Description:      "A cafe near the main transit hub, easy to reach from most directions.",
			FairnessAnalysis: "Chosen for general accessibility; travel times could not be computed.",
			Distances:        distances,
			Facilities:       []string{"wifi", "seating"},
			SuitabilityScore: 6,
		},
		{
			Rank:             2,
			Name:             "City Library Meeting Rooms",
			Type:             "public space",
			Description:      "Quiet bookable rooms in the central library.",
			FairnessAnalysis: "Central location; travel times could not be computed.",
			Distances:        distances,
			Facilities:       []string{"meeting rooms", "quiet"},
			SuitabilityScore: 5.5,
		},
		{
			Rank:             3,
			Name:             "Market Square Food Hall",
			Type:             "food hall",
			Description:      "Food hall with shared tables and varied options.",
			FairnessAnalysis: "Central location; travel times could not be computed.",
			Distances:        distances,
			Facilities:       []string{"food", "shared tables"},
			SuitabilityScore: 5,
		},
	}

	return &dto.GenerateResult{
		Analysis:        "Generated from the generic fallback set because the recommendation model was unavailable.",
		Recommendations: candidates,
	}
}
