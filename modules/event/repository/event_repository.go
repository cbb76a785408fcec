package repository

import (
	"context"
	"database/sql"
	"errors"

	"meetspot/core/database"
	"meetspot/core/logger"
	"meetspot/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Sentinel errors the service layer maps onto application error codes.
var (
	ErrEventNotFound  = errors.New("event not found or expired")
	ErrEventFull      = errors.New("event cannot accept new participants")
	ErrNicknameTaken  = errors.New("nickname already taken in this event")
	ErrShortCodeTaken = errors.New("short code already in use")
)

// EventRepository handles event and participant database operations
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract. Every read
// filters on expires_at, so an expired event is indistinguishable from
// a missing one.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event, creator *entity.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetByShortCode(ctx context.Context, code string) (*entity.Event, error)
	GetParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error)
	AdmitParticipant(ctx context.Context, participant *entity.Participant) (int, bool, error)
	FinalizeEvent(ctx context.Context, eventID uuid.UUID, recommendationID uuid.UUID) (bool, error)
}

const eventColumns = `
	id, short_code, slug, title, purpose, event_time, special_requirements,
	expected_participants, status, final_location_id, voting_started_at,
	voting_ended_at, created_at, expires_at
`

// Create inserts the event row together with its creator participant
// in one transaction.
func (r *EventRepository) Create(ctx context.Context, event *entity.Event, creator *entity.Participant) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("EventRepository:Create:Begin", err)
		return err
	}
	defer tx.Rollback()

	insertEvent := `
		INSERT INTO events (id, short_code, slug, title, purpose, event_time, special_requirements,
		                    expected_participants, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := tx.ExecContext(ctx, insertEvent,
		event.ID, event.ShortCode, event.Slug, event.Title, event.Purpose,
		event.EventTime, event.SpecialRequirements, event.ExpectedParticipants,
		event.Status, event.CreatedAt, event.ExpiresAt,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrShortCodeTaken
		}
		logger.Error("EventRepository:Create:InsertEvent", err)
		return err
	}

	insertCreator := `
		INSERT INTO participants (event_id, nickname, address, is_creator)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, joined_at
	`
	row := tx.QueryRowContext(ctx, insertCreator, event.ID, creator.Nickname, creator.Address)
	if err := row.Scan(&creator.ID, &creator.JoinedAt); err != nil {
		logger.Error("EventRepository:Create:InsertCreator", err)
		return err
	}
	creator.EventID = event.ID
	creator.IsCreator = true

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:Create:Commit", err)
		return err
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND expires_at > NOW()`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByShortCode(ctx context.Context, code string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE short_code = $1 AND expires_at > NOW()`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByShortCode", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	query := `
		SELECT id, event_id, nickname, address, is_creator, joined_at
		FROM participants
		WHERE event_id = $1
		ORDER BY joined_at, id
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetParticipants", err)
		return nil, err
	}
	return participants, nil
}

// AdmitParticipant inserts a participant while holding the event row
// lock, so the count/compare/transition sequence is serialized per
// event. Returns the new participant count and whether this admission
// crossed the threshold and flipped the event waiting -> ready. The
// flip can fire at most once: the row lock plus the status
// compare-and-set make a double fire impossible.
func (r *EventRepository) AdmitParticipant(ctx context.Context, participant *entity.Participant) (int, bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("EventRepository:AdmitParticipant:Begin", err)
		return 0, false, err
	}
	defer tx.Rollback()

	var status entity.EventStatus
	var expected int
	lock := `
		SELECT status, expected_participants FROM events
		WHERE id = $1 AND expires_at > NOW()
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, lock, participant.EventID).Scan(&status, &expected)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, ErrEventNotFound
		}
		logger.Error("EventRepository:AdmitParticipant:Lock", err)
		return 0, false, err
	}

	if status != entity.EventStatusWaiting {
		return 0, false, ErrEventFull
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE event_id = $1`, participant.EventID).Scan(&count)
	if err != nil {
		logger.Error("EventRepository:AdmitParticipant:Count", err)
		return 0, false, err
	}
	if count >= expected {
		return 0, false, ErrEventFull
	}

	insert := `
		INSERT INTO participants (event_id, nickname, address, is_creator)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, joined_at
	`
	row := tx.QueryRowContext(ctx, insert, participant.EventID, participant.Nickname, participant.Address)
	if err := row.Scan(&participant.ID, &participant.JoinedAt); err != nil {
		if isUniqueViolation(err) {
			return 0, false, ErrNicknameTaken
		}
		logger.Error("EventRepository:AdmitParticipant:Insert", err)
		return 0, false, err
	}

	count++
	becameReady := false
	if count == expected {
		flip := `UPDATE events SET status = 'ready' WHERE id = $1 AND status = 'waiting'`
		res, err := tx.ExecContext(ctx, flip, participant.EventID)
		if err != nil {
			logger.Error("EventRepository:AdmitParticipant:Flip", err)
			return 0, false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, false, err
		}
		becameReady = affected == 1
	}

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:AdmitParticipant:Commit", err)
		return 0, false, err
	}
	return count, becameReady, nil
}

// FinalizeEvent atomically flips voting -> finalized, recording the
// winning recommendation. The recommendation ownership check is part
// of the same statement so a regeneration racing with finalize cannot
// leave final_location_id pointing at a deleted row.
func (r *EventRepository) FinalizeEvent(ctx context.Context, eventID uuid.UUID, recommendationID uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET status = 'finalized', final_location_id = $2, voting_ended_at = NOW()
		WHERE id = $1 AND status = 'voting' AND expires_at > NOW()
		  AND EXISTS (SELECT 1 FROM recommendations r WHERE r.id = $2 AND r.event_id = $1)
	`
	res, err := r.DB.ExecContext(ctx, query, eventID, recommendationID)
	if err != nil {
		logger.Error("EventRepository:FinalizeEvent", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
