package redis

import (
	"fmt"

	"github.com/playroom-games/playroom/internal/model"
)

// Key prefix for all room data
const keyPrefix = "playroom"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
