package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetspot/core/config"
	"meetspot/modules/recommend/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(url string) *HTTPGenerator {
	return NewHTTPGenerator(config.GeneratorConfig{
		URL:     url,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func generateRequest() *dto.GenerateRequest {
	return &dto.GenerateRequest{
		Title:   "Team lunch",
		Purpose: "dining",
		Participants: []dto.ParticipantInput{
			{Nickname: "alice", Address: "1 Main St"},
			{Nickname: "bob", Address: "2 Oak Ave"},
		},
	}
}

const successBody = `{
	"analysis": "All three are roughly equidistant.",
	"recommendations": [
		{"rank": 1, "name": "Noodle House", "type": "restaurant", "suitability_score": 8.5,
		 "distances": [{"participant": "alice", "estimate": "2km"}, {"participant": "bob", "estimate": "3km"}]},
		{"rank": 2, "name": "Corner Bistro", "type": "restaurant", "suitability_score": 7.9, "distances": []},
		{"rank": 3, "name": "Garden Terrace", "type": "restaurant", "suitability_score": 7.1, "distances": []}
	]
}`

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(successBody))
	}))
	defer srv.Close()

	result, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "Noodle House", result.Recommendations[0].Name)
	for i, rec := range result.Recommendations {
		assert.Equal(t, i+1, rec.Rank)
	}
}

func TestGenerateNormalizesRanks(t *testing.T) {
	// Four candidates with gapped ranks: keep the best three, renumber 1..3.
	body := `{"recommendations": [
		{"rank": 7, "name": "D"}, {"rank": 2, "name": "B"},
		{"rank": 5, "name": "C"}, {"rank": 1, "name": "A"}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	result, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "A", result.Recommendations[0].Name)
	assert.Equal(t, "B", result.Recommendations[1].Name)
	assert.Equal(t, "C", result.Recommendations[2].Name)
	assert.Equal(t, 3, result.Recommendations[2].Rank)
}

func TestGenerateMissingCredentials(t *testing.T) {
	g := NewHTTPGenerator(config.GeneratorConfig{})
	_, err := g.Generate(context.Background(), generateRequest())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGenerateUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGenerateStructuredRejection(t *testing.T) {
	body := `{"error": true, "error_code": "UNRESOLVABLE_ADDRESS",
		"error_message": "Could not resolve address for bob",
		"suggestions": ["Include a city name", "Use a full street address"]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "UNRESOLVABLE_ADDRESS", invalid.Code)
	assert.Len(t, invalid.Suggestions, 2)
}

func TestGenerateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recommendations": []}`))
	}))
	defer srv.Close()

	_, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGenerateTooFewCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recommendations": [{"rank": 1, "name": "Only One"}]}`))
	}))
	defer srv.Close()

	_, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGenerateUpstreamErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	result, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 3)
	// Fallback distances cover every participant, with unknown estimates.
	require.Len(t, result.Recommendations[0].Distances, 2)
	assert.Equal(t, "unknown", result.Recommendations[0].Distances[0].Estimate)
}

func TestGenerateTransportErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	result, err := testGenerator(srv.URL).Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)
}

func TestGenerateCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testGenerator(srv.URL).Generate(ctx, generateRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
