package service

import (
	"context"
	"testing"
	"time"

	"meetspot/core/cache"
	apperrors "meetspot/core/errors"
	"meetspot/modules/event/dto"
	"meetspot/modules/event/entity"
	"meetspot/modules/event/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepositoryInterface with the same
// admission semantics as the SQL implementation.
type fakeEventRepo struct {
	events         map[uuid.UUID]*entity.Event
	participants   map[uuid.UUID][]entity.Participant
	codeCollisions int
	finalizeOK     bool
	nextID         int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:       make(map[uuid.UUID]*entity.Event),
		participants: make(map[uuid.UUID][]entity.Participant),
		finalizeOK:   true,
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event, creator *entity.Participant) error {
	if f.codeCollisions > 0 {
		f.codeCollisions--
		return repository.ErrShortCodeTaken
	}
	stored := *event
	f.events[event.ID] = &stored
	f.nextID++
	creator.ID = f.nextID
	creator.EventID = event.ID
	creator.IsCreator = true
	creator.JoinedAt = time.Now()
	f.participants[event.ID] = []entity.Participant{*creator}
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	event, ok := f.events[id]
	if !ok || !event.IsLive(time.Now()) {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) GetByShortCode(_ context.Context, code string) (*entity.Event, error) {
	for _, event := range f.events {
		if event.ShortCode == code && event.IsLive(time.Now()) {
			copied := *event
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) GetParticipants(_ context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	return append([]entity.Participant(nil), f.participants[eventID]...), nil
}

func (f *fakeEventRepo) AdmitParticipant(_ context.Context, participant *entity.Participant) (int, bool, error) {
	event, ok := f.events[participant.EventID]
	if !ok || !event.IsLive(time.Now()) {
		return 0, false, repository.ErrEventNotFound
	}
	if event.Status != entity.EventStatusWaiting {
		return 0, false, repository.ErrEventFull
	}
	existing := f.participants[participant.EventID]
	if len(existing) >= event.ExpectedParticipants {
		return 0, false, repository.ErrEventFull
	}
	for _, p := range existing {
		if p.Nickname == participant.Nickname {
			return 0, false, repository.ErrNicknameTaken
		}
	}

	f.nextID++
	participant.ID = f.nextID
	participant.JoinedAt = time.Now()
	f.participants[participant.EventID] = append(existing, *participant)

	count := len(existing) + 1
	becameReady := false
	if count == event.ExpectedParticipants {
		event.Status = entity.EventStatusReady
		becameReady = true
	}
	return count, becameReady, nil
}

func (f *fakeEventRepo) FinalizeEvent(_ context.Context, eventID uuid.UUID, recommendationID uuid.UUID) (bool, error) {
	event, ok := f.events[eventID]
	if !ok || !f.finalizeOK || event.Status != entity.EventStatusVoting {
		return false, nil
	}
	event.Status = entity.EventStatusFinalized
	event.FinalLocationID = &recommendationID
	now := time.Now()
	event.VotingEndedAt = &now
	return true, nil
}

type fakeLifecycle struct {
	triggered []uuid.UUID
}

func (f *fakeLifecycle) TriggerAutoGeneration(eventID uuid.UUID) {
	f.triggered = append(f.triggered, eventID)
}

func (f *fakeLifecycle) RetryGeneration(context.Context, uuid.UUID, string) *apperrors.AppError {
	return nil
}

func (f *fakeLifecycle) Finalize(context.Context, uuid.UUID, *dto.FinalizeRequest) (*dto.EventResponse, *apperrors.AppError) {
	return nil, nil
}

func newTestService(repo *fakeEventRepo, lifecycle *fakeLifecycle) EventServiceInterface {
	return NewEventService(repo, cache.NewNoop(), lifecycle)
}

func createRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:                "Team lunch",
		Purpose:              "dining",
		ExpectedParticipants: 3,
		CreatorNickname:      "alice",
		CreatorAddress:       "1 Main St",
	}
}

func TestCreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	resp, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	assert.Equal(t, "waiting", resp.Status)
	assert.Len(t, resp.ShortCode, 6)
	assert.Equal(t, "team-lunch", resp.Slug)
	assert.Equal(t, 1, resp.ParticipantCount)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "alice", resp.Participants[0].Nickname)
	assert.True(t, resp.Participants[0].IsCreator)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestCreateEventRetriesShortCode(t *testing.T) {
	repo := newFakeEventRepo()
	repo.codeCollisions = 2
	svc := newTestService(repo, &fakeLifecycle{})

	resp, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)
	assert.Len(t, resp.ShortCode, 6)
}

func TestCreateEventRejectsUnknownPurpose(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeLifecycle{})

	req := createRequest()
	req.Purpose = "party"
	_, appErr := svc.Create(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
}

func TestJoinEvent(t *testing.T) {
	repo := newFakeEventRepo()
	lifecycle := &fakeLifecycle{}
	svc := newTestService(repo, lifecycle)

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	resp, appErr := svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "bob", Address: "2 Oak Ave"})
	require.Nil(t, appErr)

	assert.Equal(t, "bob", resp.Nickname)
	assert.False(t, resp.NicknameModified)
	assert.Empty(t, resp.OriginalNickname)
	assert.Equal(t, 2, resp.ParticipantCount)
	assert.Equal(t, "waiting", resp.EventStatus)
	assert.False(t, resp.ShouldGenerateRecommendations)
	assert.Empty(t, lifecycle.triggered)
}

func TestJoinEventNicknameCollision(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	resp, appErr := svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "alice", Address: "2 Oak Ave"})
	require.Nil(t, appErr)

	assert.True(t, resp.NicknameModified)
	assert.Equal(t, "alice", resp.OriginalNickname)
	assert.NotEqual(t, "alice", resp.Nickname)
	assert.Contains(t, resp.Nickname, "alice_")
}

func TestJoinEventCrossesThreshold(t *testing.T) {
	repo := newFakeEventRepo()
	lifecycle := &fakeLifecycle{}
	svc := newTestService(repo, lifecycle)

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	_, appErr = svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "bob", Address: "2 Oak Ave"})
	require.Nil(t, appErr)

	resp, appErr := svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "carol", Address: "3 Pine Rd"})
	require.Nil(t, appErr)

	assert.Equal(t, "ready", resp.EventStatus)
	assert.True(t, resp.ShouldGenerateRecommendations)
	require.Len(t, lifecycle.triggered, 1)
	assert.Equal(t, created.ID, lifecycle.triggered[0])
}

func TestJoinEventAfterReady(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)
	repo.events[created.ID].Status = entity.EventStatusReady

	_, appErr = svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "dave", Address: "4 Elm St"})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestJoinEventNotFound(t *testing.T) {
	svc := newTestService(newFakeEventRepo(), &fakeLifecycle{})

	_, appErr := svc.Join(context.Background(), uuid.New(), &dto.JoinEventRequest{Nickname: "bob", Address: "2 Oak Ave"})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestGetByIDExpired(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)
	repo.events[created.ID].ExpiresAt = time.Now().Add(-time.Hour)

	_, appErr = svc.GetByID(context.Background(), created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestGetByShortCode(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	resp, appErr := svc.GetByShortCode(context.Background(), created.ShortCode)
	require.Nil(t, appErr)
	assert.Equal(t, created.ID, resp.ID)

	_, appErr = svc.GetByShortCode(context.Background(), "ZZZZZZ")
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestListParticipantsJoinOrder(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestService(repo, &fakeLifecycle{})

	created, appErr := svc.Create(context.Background(), createRequest())
	require.Nil(t, appErr)

	_, appErr = svc.Join(context.Background(), created.ID, &dto.JoinEventRequest{Nickname: "bob", Address: "2 Oak Ave"})
	require.Nil(t, appErr)

	participants, appErr := svc.ListParticipants(context.Background(), created.ID)
	require.Nil(t, appErr)
	require.Len(t, participants, 2)
	assert.Equal(t, "alice", participants[0].Nickname)
	assert.Equal(t, "bob", participants[1].Nickname)
}
