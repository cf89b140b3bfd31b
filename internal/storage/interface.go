package storage

import (
	"context"

	"github.com/playroom-games/playroom/internal/model"
)

// MutateFunc is applied to a room under exclusive access. Returning an
// error aborts the mutation and leaves the stored room unchanged.
type MutateFunc func(room *model.Room) error

// Storage is the authoritative table of live rooms. All compound mutations
// must go through UpdateRoom rather than Get-then-Save so that concurrent
// events targeting the same room cannot lose updates.
type Storage interface {
	// SaveRoom stores a new room or replaces an existing one
	SaveRoom(ctx context.Context, room *model.Room) error

	// GetRoom returns a snapshot of the room, or model.ErrRoomNotFound
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)

	// UpdateRoom applies fn to the room under exclusive access and returns
	// a snapshot of the updated room, or model.ErrRoomNotFound
	UpdateRoom(ctx context.Context, id model.RoomID, fn MutateFunc) (*model.Room, error)

	// DeleteRoom removes the room; deleting an absent room is not an error
	DeleteRoom(ctx context.Context, id model.RoomID) error

	// RoomExists reports whether a room with the given id exists
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)

	// ListRoomIDs returns the ids of all live rooms
	ListRoomIDs(ctx context.Context) ([]model.RoomID, error)
}
