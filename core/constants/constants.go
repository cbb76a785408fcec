package constants

import "time"

// Context keys
const (
	ContextRequestID = "request_id"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // in minutes
)

// Event lifecycle
const (
	// EventTTLDays is the default lifetime of an event. Set once at
	// creation, never extended.
	EventTTLDays = 30

	ShareCodeLength         = 6
	MinExpectedParticipants = 2
	MaxExpectedParticipants = 20

	// RecommendationCount is the contract with the generator: every
	// successful generation produces exactly this many candidates.
	RecommendationCount = 3
)

// Nickname collision policy
const (
	NicknameSuffixMin   = 10
	NicknameSuffixMax   = 99
	NicknameMaxAttempts = 90
)

// Recommendation generator
const (
	GeneratorTimeout = 60 * time.Second
)

// Cache TTLs
const (
	ShareCodeCacheTTL = 24 * time.Hour
	TallyCacheTTL     = 5 * time.Second
)
