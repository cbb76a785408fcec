package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance is one participant's travel estimate to a candidate location
type Distance struct {
	Participant        string       `json:"participant"`
	ParticipantAddress string       `json:"participant_address,omitempty"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	Estimate           string       `json:"estimate"`
	Transport          string       `json:"transport"`
	Time               string       `json:"time"`
}

// StringList is a JSONB-backed string slice
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// DistanceList is a JSONB-backed list of per-participant distances
type DistanceList []Distance

func (l DistanceList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Distance{})
	}
	return json.Marshal(l)
}

func (l *DistanceList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// Recommendation is one of exactly three proposed meeting locations
// generated for a full event. Regeneration replaces the whole batch.
type Recommendation struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	EventID          uuid.UUID    `db:"event_id" json:"event_id"`
	LocationName     string       `db:"location_name" json:"location_name"`
	LocationType     string       `db:"location_type" json:"location_type"`
	Description      string       `db:"description" json:"description"`
	FairnessAnalysis string       `db:"fairness_analysis" json:"fairness_analysis"`
	SuitabilityScore float64      `db:"suitability_score" json:"suitability_score"`
	Rank             int          `db:"rank" json:"rank"`
	Facilities       StringList   `db:"facilities" json:"facilities"`
	Distances        DistanceList `db:"distances" json:"distances"`
	GeneratedAt      time.Time    `db:"generated_at" json:"generated_at"`
}
