package entity

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person who joined an event. Exactly one participant
// per event has IsCreator set.
type Participant struct {
	ID        int64     `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Address   string    `db:"address" json:"address"`
	IsCreator bool      `db:"is_creator" json:"is_creator"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}
