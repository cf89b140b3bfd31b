package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// RoomTTL is a safety net for rooms orphaned by a crashed process;
	// normal cleanup is removal-on-empty, not expiry
	RoomTTL time.Duration

	// MaxUpdateRetries bounds the optimistic-locking retry loop in UpdateRoom
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		RoomTTL:          24 * time.Hour,
		MaxUpdateRetries: 16,
	}
}
