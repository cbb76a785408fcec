package repository

import (
	"context"
	"database/sql"
	"errors"

	"meetspot/core/database"
	"meetspot/core/logger"
	"meetspot/modules/vote/entity"

	"github.com/google/uuid"
)

// Sentinel errors the service layer maps onto application error codes.
var (
	ErrEventNotFound          = errors.New("event not found or expired")
	ErrVotingClosed           = errors.New("event is not accepting votes")
	ErrRecommendationNotFound = errors.New("recommendation does not belong to this event")
)

// CastOutcome describes what a cast did to the ledger
type CastOutcome int

const (
	// CastCreated is a first vote by this voter
	CastCreated CastOutcome = iota
	// CastSwitched moved the voter's vote to another recommendation
	CastSwitched
	// CastUnchanged means the voter already voted for this recommendation
	CastUnchanged
)

func (o CastOutcome) String() string {
	switch o {
	case CastCreated:
		return "created"
	case CastSwitched:
		return "switched"
	case CastUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// VoteRepository handles vote database operations
type VoteRepository struct {
	DB database.IDatabase
}

// NewVoteRepository creates a new repository instance
func NewVoteRepository(db database.IDatabase) *VoteRepository {
	return &VoteRepository{DB: db}
}

// VoteRepositoryInterface defines the repository contract
type VoteRepositoryInterface interface {
	Cast(ctx context.Context, eventID uuid.UUID, voterNickname string, recommendationID uuid.UUID) (CastOutcome, error)
	Remove(ctx context.Context, eventID uuid.UUID, voterNickname string, recommendationID uuid.UUID) (bool, error)
	TallyByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.TallyRow, error)
	GetByVoter(ctx context.Context, eventID uuid.UUID, voterNickname string) (*entity.Vote, error)
}

// Cast records or moves a vote. The event row lock serializes all
// ledger writes for the event, so the read/insert-or-update sequence
// cannot interleave with another cast, a removal, or a finalize.
func (r *VoteRepository) Cast(ctx context.Context, eventID uuid.UUID, voterNickname string, recommendationID uuid.UUID) (CastOutcome, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("VoteRepository:Cast:Begin", err)
		return 0, err
	}
	defer tx.Rollback()

	var status string
	lock := `SELECT status FROM events WHERE id = $1 AND expires_at > NOW() FOR UPDATE`
	err = tx.QueryRowContext(ctx, lock, eventID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrEventNotFound
		}
		logger.Error("VoteRepository:Cast:Lock", err)
		return 0, err
	}
	if status != "voting" {
		return 0, ErrVotingClosed
	}

	var owned bool
	ownership := `SELECT EXISTS (SELECT 1 FROM recommendations WHERE id = $1 AND event_id = $2)`
	if err := tx.QueryRowContext(ctx, ownership, recommendationID, eventID).Scan(&owned); err != nil {
		logger.Error("VoteRepository:Cast:Ownership", err)
		return 0, err
	}
	if !owned {
		return 0, ErrRecommendationNotFound
	}

	var current uuid.UUID
	existing := `SELECT recommendation_id FROM votes WHERE event_id = $1 AND voter_nickname = $2`
	err = tx.QueryRowContext(ctx, existing, eventID, voterNickname).Scan(&current)

	outcome := CastCreated
	switch {
	case err == sql.ErrNoRows:
		insert := `
			INSERT INTO votes (event_id, recommendation_id, voter_nickname)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, insert, eventID, recommendationID, voterNickname); err != nil {
			logger.Error("VoteRepository:Cast:Insert", err)
			return 0, err
		}
	case err != nil:
		logger.Error("VoteRepository:Cast:Existing", err)
		return 0, err
	case current == recommendationID:
		outcome = CastUnchanged
	default:
		update := `
			UPDATE votes SET recommendation_id = $3, updated_at = NOW()
			WHERE event_id = $1 AND voter_nickname = $2
		`
		if _, err := tx.ExecContext(ctx, update, eventID, voterNickname, recommendationID); err != nil {
			logger.Error("VoteRepository:Cast:Update", err)
			return 0, err
		}
		outcome = CastSwitched
	}

	if err := tx.Commit(); err != nil {
		logger.Error("VoteRepository:Cast:Commit", err)
		return 0, err
	}
	return outcome, nil
}

// Remove withdraws a voter's vote for the given recommendation. The
// events join keeps removal legal only during voting.
func (r *VoteRepository) Remove(ctx context.Context, eventID uuid.UUID, voterNickname string, recommendationID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM votes v
		USING events e
		WHERE v.event_id = $1 AND v.voter_nickname = $2 AND v.recommendation_id = $3
		  AND e.id = v.event_id AND e.status = 'voting' AND e.expires_at > NOW()
	`
	res, err := r.DB.ExecContext(ctx, query, eventID, voterNickname, recommendationID)
	if err != nil {
		logger.Error("VoteRepository:Remove", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// TallyByEventID counts votes per recommendation, rank-ordered.
// Recommendations with zero votes appear with a zero count.
func (r *VoteRepository) TallyByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.TallyRow, error) {
	query := `
		SELECT r.id AS recommendation_id, r.rank, r.location_name,
		       COUNT(v.id) AS votes,
		       COALESCE(array_agg(v.voter_nickname ORDER BY v.updated_at) FILTER (WHERE v.id IS NOT NULL), '{}') AS voters
		FROM recommendations r
		LEFT JOIN votes v ON v.recommendation_id = r.id
		WHERE r.event_id = $1
		GROUP BY r.id, r.rank, r.location_name
		ORDER BY r.rank
	`

	var rows []entity.TallyRow
	if err := r.DB.SelectContext(ctx, &rows, query, eventID); err != nil {
		logger.Error("VoteRepository:TallyByEventID", err)
		return nil, err
	}
	return rows, nil
}

func (r *VoteRepository) GetByVoter(ctx context.Context, eventID uuid.UUID, voterNickname string) (*entity.Vote, error) {
	query := `
		SELECT id, event_id, recommendation_id, voter_nickname, created_at, updated_at
		FROM votes
		WHERE event_id = $1 AND voter_nickname = $2
	`

	var vote entity.Vote
	err := r.DB.GetContext(ctx, &vote, query, eventID, voterNickname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("VoteRepository:GetByVoter", err)
		return nil, err
	}
	return &vote, nil
}
