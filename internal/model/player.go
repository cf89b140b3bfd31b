package model

import "time"

// PlayerID is an opaque connection-scoped identity
type PlayerID string

// Player represents a room member. The first joiner is the host.
type Player struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	JoinedAt    time.Time `json:"joined_at"`
}
