package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusWaiting   EventStatus = "waiting"
	EventStatusReady     EventStatus = "ready"
	EventStatusVoting    EventStatus = "voting"
	EventStatusFinalized EventStatus = "finalized"
	// EventStatusExpired is derived from expires_at on read; it is a
	// legal transition target from every state so a janitor process
	// could persist it later, but nothing is required to.
	EventStatusExpired EventStatus = "expired"
)

// validTransitions defines allowed status transitions.
// Key is current status, value is list of allowed next statuses.
// Status never moves backward: a failed generation leaves the event
// in ready until a retry succeeds.
var validTransitions = map[EventStatus][]EventStatus{
	EventStatusWaiting:   {EventStatusReady, EventStatusExpired},
	EventStatusReady:     {EventStatusVoting, EventStatusExpired},
	EventStatusVoting:    {EventStatusFinalized, EventStatusExpired},
	EventStatusFinalized: {EventStatusExpired},
	EventStatusExpired:   {},
}

// IsValid returns true if the status is a known lifecycle status
func (s EventStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// IsTerminal returns true if no further transition is possible
func (s EventStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo returns true if transition to the target status is allowed
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// EventPurpose classifies what the group is meeting for
type EventPurpose string

const (
	EventPurposeDining  EventPurpose = "dining"
	EventPurposeCoffee  EventPurpose = "coffee"
	EventPurposeMeeting EventPurpose = "meeting"
	EventPurposeOther   EventPurpose = "other"
)

func (p EventPurpose) IsValid() bool {
	switch p {
	case EventPurposeDining, EventPurposeCoffee, EventPurposeMeeting, EventPurposeOther:
		return true
	}
	return false
}

// Event is one instance of the meetup-planning workflow
type Event struct {
	ID                   uuid.UUID    `db:"id" json:"id"`
	ShortCode            string       `db:"short_code" json:"short_code"`
	Slug                 string       `db:"slug" json:"slug"`
	Title                string       `db:"title" json:"title"`
	Purpose              EventPurpose `db:"purpose" json:"purpose"`
	EventTime            *time.Time   `db:"event_time" json:"event_time,omitempty"`
	SpecialRequirements  *string      `db:"special_requirements" json:"special_requirements,omitempty"`
	ExpectedParticipants int          `db:"expected_participants" json:"expected_participants"`
	Status               EventStatus  `db:"status" json:"status"`
	FinalLocationID      *uuid.UUID   `db:"final_location_id" json:"final_location_id,omitempty"`
	VotingStartedAt      *time.Time   `db:"voting_started_at" json:"voting_started_at,omitempty"`
	VotingEndedAt        *time.Time   `db:"voting_ended_at" json:"voting_ended_at,omitempty"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	ExpiresAt            time.Time    `db:"expires_at" json:"expires_at"`
}

// IsLive reports whether the event is still inside its TTL. An event
// past expires_at behaves like a missing one on every path.
func (e *Event) IsLive(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// DisplayStatus derives the externally visible status: expired once
// the TTL elapsed, the persisted status otherwise.
func (e *Event) DisplayStatus(now time.Time) EventStatus {
	if !e.IsLive(now) {
		return EventStatusExpired
	}
	return e.Status
}

// IsCreator reports whether the given nickname belongs to the event
// creator among the supplied participants.
func IsCreator(participants []Participant, nickname string) bool {
	for _, p := range participants {
		if p.IsCreator {
			return p.Nickname == nickname
		}
	}
	return false
}
