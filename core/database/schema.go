package database

import (
	"context"

	"meetspot/core/logger"
)

// schema is applied idempotently at startup. Children cascade-delete
// with their event; votes additionally cascade with their
// recommendation so regeneration wipes stale votes at the DB level.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	short_code VARCHAR(6) NOT NULL UNIQUE,
	slug TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	purpose TEXT NOT NULL,
	event_time TIMESTAMPTZ,
	special_requirements TEXT,
	expected_participants INT NOT NULL,
	status TEXT NOT NULL,
	final_location_id UUID,
	voting_started_at TIMESTAMPTZ,
	voting_ended_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
	id BIGSERIAL PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	nickname TEXT NOT NULL,
	address TEXT NOT NULL,
	is_creator BOOLEAN NOT NULL DEFAULT FALSE,
	joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, nickname)
);

CREATE TABLE IF NOT EXISTS recommendations (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	location_name TEXT NOT NULL,
	location_type TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	fairness_analysis TEXT NOT NULL DEFAULT '',
	suitability_score REAL NOT NULL DEFAULT 0,
	rank INT NOT NULL,
	facilities JSONB NOT NULL DEFAULT '[]',
	distances JSONB NOT NULL DEFAULT '[]',
	generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, rank)
);

CREATE TABLE IF NOT EXISTS votes (
	id BIGSERIAL PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	recommendation_id UUID NOT NULL REFERENCES recommendations(id) ON DELETE CASCADE,
	voter_nickname TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, voter_nickname)
);

CREATE INDEX IF NOT EXISTS idx_participants_event_id ON participants(event_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_event_id ON recommendations(event_id);
CREATE INDEX IF NOT EXISTS idx_votes_event_id ON votes(event_id);
CREATE INDEX IF NOT EXISTS idx_votes_recommendation_id ON votes(recommendation_id);
`

// EnsureSchema creates the tables if they do not exist yet.
func (d *Database) EnsureSchema(ctx context.Context) error {
	if _, err := d.sqlx.ExecContext(ctx, schema); err != nil {
		return err
	}
	logger.Info("Database schema ensured")
	return nil
}
