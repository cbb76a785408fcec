package service

import (
	"context"
	"testing"
	"time"

	"meetspot/core/cache"
	apperrors "meetspot/core/errors"
	evententity "meetspot/modules/event/entity"
	"meetspot/modules/recommend/dto"
	"meetspot/modules/recommend/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommendationRepo struct {
	stored  map[uuid.UUID][]entity.Recommendation
	flipped bool
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{stored: make(map[uuid.UUID][]entity.Recommendation), flipped: true}
}

func (f *fakeRecommendationRepo) ListByEventID(_ context.Context, eventID uuid.UUID) ([]entity.Recommendation, error) {
	return f.stored[eventID], nil
}

func (f *fakeRecommendationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Recommendation, error) {
	for _, recs := range f.stored {
		for i := range recs {
			if recs[i].ID == id {
				return &recs[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRecommendationRepo) ReplaceForEvent(_ context.Context, eventID uuid.UUID, recs []entity.Recommendation) (bool, error) {
	if !f.flipped {
		return false, nil
	}
	f.stored[eventID] = recs
	return true, nil
}

type fakeEventRepo struct {
	event *evententity.Event
}

func (f *fakeEventRepo) Create(context.Context, *evententity.Event, *evententity.Participant) error {
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*evententity.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, nil
	}
	return f.event, nil
}

func (f *fakeEventRepo) GetByShortCode(context.Context, string) (*evententity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) GetParticipants(context.Context, uuid.UUID) ([]evententity.Participant, error) {
	return nil, nil
}

func (f *fakeEventRepo) AdmitParticipant(context.Context, *evententity.Participant) (int, bool, error) {
	return 0, false, nil
}

func (f *fakeEventRepo) FinalizeEvent(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type stubGenerator struct {
	result  *dto.GenerateResult
	err     error
	lastReq *dto.GenerateRequest
}

func (s *stubGenerator) Generate(_ context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	s.lastReq = req
	return s.result, s.err
}

func threeCandidates() *dto.GenerateResult {
	return &dto.GenerateResult{
		Recommendations: []dto.CandidateLocation{
			{Rank: 1, Name: "Noodle House", SuitabilityScore: 8.5},
			{Rank: 2, Name: "Corner Bistro", SuitabilityScore: 7.9},
			{Rank: 3, Name: "Garden Terrace", SuitabilityScore: 7.1},
		},
	}
}

func readyEvent() (*evententity.Event, []evententity.Participant) {
	special := "vegetarian options"
	event := &evententity.Event{
		ID:                   uuid.New(),
		Title:                "Team lunch",
		Purpose:              evententity.EventPurposeDining,
		SpecialRequirements:  &special,
		ExpectedParticipants: 2,
		Status:               evententity.EventStatusReady,
		ExpiresAt:            time.Now().Add(24 * time.Hour),
	}
	participants := []evententity.Participant{
		{ID: 1, EventID: event.ID, Nickname: "alice", Address: "1 Main St", IsCreator: true},
		{ID: 2, EventID: event.ID, Nickname: "bob", Address: "2 Oak Ave"},
	}
	return event, participants
}

func TestGenerateForEvent(t *testing.T) {
	repo := newFakeRecommendationRepo()
	gen := &stubGenerator{result: threeCandidates()}
	event, participants := readyEvent()
	svc := NewRecommendService(repo, &fakeEventRepo{event: event}, gen, cache.NewNoop())

	appErr := svc.GenerateForEvent(context.Background(), event, participants)
	require.Nil(t, appErr)

	// Request carries everything the generator needs, in join order.
	require.NotNil(t, gen.lastReq)
	assert.Equal(t, "Team lunch", gen.lastReq.Title)
	assert.Equal(t, "vegetarian options", gen.lastReq.SpecialRequirements)
	require.Len(t, gen.lastReq.Participants, 2)
	assert.Equal(t, "alice", gen.lastReq.Participants[0].Nickname)

	stored := repo.stored[event.ID]
	require.Len(t, stored, 3)
	assert.Equal(t, "Noodle House", stored[0].LocationName)
	assert.Equal(t, event.ID, stored[0].EventID)
	assert.NotEqual(t, uuid.Nil, stored[0].ID)
}

func TestGenerateForEventLosesRace(t *testing.T) {
	repo := newFakeRecommendationRepo()
	repo.flipped = false
	event, participants := readyEvent()
	svc := NewRecommendService(repo, &fakeEventRepo{event: event}, &stubGenerator{result: threeCandidates()}, cache.NewNoop())

	appErr := svc.GenerateForEvent(context.Background(), event, participants)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestGenerateForEventInvalidInput(t *testing.T) {
	gen := &stubGenerator{err: &InvalidInputError{
		Code:        "ADDRESSES_TOO_FAR",
		Message:     "Addresses span multiple regions",
		Suggestions: []string{"Check for typos in the addresses"},
	}}
	event, participants := readyEvent()
	svc := NewRecommendService(newFakeRecommendationRepo(), &fakeEventRepo{event: event}, gen, cache.NewNoop())

	appErr := svc.GenerateForEvent(context.Background(), event, participants)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrGenerationFailed, appErr.Code)

	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ADDRESSES_TOO_FAR", details["error_code"])
}

func TestGenerateForEventMissingCredentials(t *testing.T) {
	gen := &stubGenerator{err: ErrMissingCredentials}
	event, participants := readyEvent()
	svc := NewRecommendService(newFakeRecommendationRepo(), &fakeEventRepo{event: event}, gen, cache.NewNoop())

	appErr := svc.GenerateForEvent(context.Background(), event, participants)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrGenerationFailed, appErr.Code)
}

func TestListByEventID(t *testing.T) {
	repo := newFakeRecommendationRepo()
	event, _ := readyEvent()
	repo.stored[event.ID] = []entity.Recommendation{
		{ID: uuid.New(), EventID: event.ID, LocationName: "Noodle House", Rank: 1},
	}
	svc := NewRecommendService(repo, &fakeEventRepo{event: event}, &stubGenerator{}, cache.NewNoop())

	recs, appErr := svc.ListByEventID(context.Background(), event.ID)
	require.Nil(t, appErr)
	require.Len(t, recs, 1)
	assert.Equal(t, "Noodle House", recs[0].LocationName)
}

func TestListByEventIDUnknownEvent(t *testing.T) {
	svc := NewRecommendService(newFakeRecommendationRepo(), &fakeEventRepo{}, &stubGenerator{}, cache.NewNoop())

	_, appErr := svc.ListByEventID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
