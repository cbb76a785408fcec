package repository

import (
	"context"
	"database/sql"
	"time"

	"meetspot/core/database"
	"meetspot/core/logger"
	"meetspot/modules/recommend/entity"

	"github.com/google/uuid"
)

// RecommendationRepository handles recommendation database operations
type RecommendationRepository struct {
	DB database.IDatabase
}

// NewRecommendationRepository creates a new repository instance
func NewRecommendationRepository(db database.IDatabase) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

// RecommendationRepositoryInterface defines the repository contract
type RecommendationRepositoryInterface interface {
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Recommendation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Recommendation, error)
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, recs []entity.Recommendation) (bool, error)
}

func (r *RecommendationRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Recommendation, error) {
	query := `
		SELECT id, event_id, location_name, location_type, description, fairness_analysis,
		       suitability_score, rank, facilities, distances, generated_at
		FROM recommendations
		WHERE event_id = $1
		ORDER BY rank
	`

	var recs []entity.Recommendation
	err := r.DB.SelectContext(ctx, &recs, query, eventID)
	if err != nil {
		logger.Error("RecommendationRepository:ListByEventID", err)
		return nil, err
	}

	return recs, nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Recommendation, error) {
	query := `
		SELECT id, event_id, location_name, location_type, description, fairness_analysis,
		       suitability_score, rank, facilities, distances, generated_at
		FROM recommendations
		WHERE id = $1
	`

	var rec entity.Recommendation
	err := r.DB.GetContext(ctx, &rec, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RecommendationRepository:GetByID", err)
		return nil, err
	}

	return &rec, nil
}

// ReplaceForEvent swaps in a freshly generated batch in one
// transaction: old recommendations are deleted (their votes cascade),
// the new batch is inserted, and the event is flipped ready -> voting
// with a compare-and-set. Returns false when the event was no longer
// in ready, which means a concurrent generation won; the caller's
// batch is discarded by rollback.
func (r *RecommendationRepository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, recs []entity.Recommendation) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("RecommendationRepository:ReplaceForEvent:Begin", err)
		return false, err
	}
	defer tx.Rollback()

	flip := `
		UPDATE events
		SET status = 'voting', voting_started_at = $2
		WHERE id = $1 AND status = 'ready' AND expires_at > NOW()
	`
	res, err := tx.ExecContext(ctx, flip, eventID, time.Now())
	if err != nil {
		logger.Error("RecommendationRepository:ReplaceForEvent:Flip", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE event_id = $1`, eventID); err != nil {
		logger.Error("RecommendationRepository:ReplaceForEvent:DeleteOld", err)
		return false, err
	}

	insert := `
		INSERT INTO recommendations (id, event_id, location_name, location_type, description,
		                             fairness_analysis, suitability_score, rank, facilities, distances, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, rec := range recs {
		facilities, err := rec.Facilities.Value()
		if err != nil {
			return false, err
		}
		distances, err := rec.Distances.Value()
		if err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx, insert,
			rec.ID, eventID, rec.LocationName, rec.LocationType, rec.Description,
			rec.FairnessAnalysis, rec.SuitabilityScore, rec.Rank, facilities, distances, rec.GeneratedAt,
		); err != nil {
			logger.Error("RecommendationRepository:ReplaceForEvent:Insert", err)
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("RecommendationRepository:ReplaceForEvent:Commit", err)
		return false, err
	}

	return true, nil
}
