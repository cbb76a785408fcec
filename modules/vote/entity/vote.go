package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Vote is one participant's current choice in an event. The ledger
// holds at most one row per (event, voter): switching updates the row
// in place.
type Vote struct {
	ID               int64     `db:"id" json:"id"`
	EventID          uuid.UUID `db:"event_id" json:"event_id"`
	RecommendationID uuid.UUID `db:"recommendation_id" json:"recommendation_id"`
	VoterNickname    string    `db:"voter_nickname" json:"voter_nickname"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// TallyRow is one recommendation's vote count, rank-ordered
type TallyRow struct {
	RecommendationID uuid.UUID      `db:"recommendation_id"`
	Rank             int            `db:"rank"`
	LocationName     string         `db:"location_name"`
	Votes            int            `db:"votes"`
	Voters           pq.StringArray `db:"voters"`
}
