package testutil

import (
	"sync"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
)

// PublishedMessage records one Publish or SendTo call
type PublishedMessage struct {
	RoomID   model.RoomID
	PlayerID model.PlayerID // set only for SendTo
	Message  realtime.Message
}

// RecordingBroadcaster captures fan-out calls for assertions in tests
type RecordingBroadcaster struct {
	mu          sync.Mutex
	published   []PublishedMessage
	closedRooms []model.RoomID
}

var _ realtime.Broadcaster = (*RecordingBroadcaster)(nil)

// NewRecordingBroadcaster creates an empty RecordingBroadcaster
func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{}
}

func (b *RecordingBroadcaster) Publish(roomID model.RoomID, msg realtime.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, PublishedMessage{RoomID: roomID, Message: msg})
}

func (b *RecordingBroadcaster) SendTo(roomID model.RoomID, playerID model.PlayerID, msg realtime.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, PublishedMessage{RoomID: roomID, PlayerID: playerID, Message: msg})
}

func (b *RecordingBroadcaster) CloseRoom(roomID model.RoomID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closedRooms = append(b.closedRooms, roomID)
}

// Published returns a copy of all recorded messages
func (b *RecordingBroadcaster) Published() []PublishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PublishedMessage, len(b.published))
	copy(out, b.published)
	return out
}

// PublishedOfType returns recorded messages with the given event type
func (b *RecordingBroadcaster) PublishedOfType(t model.EventType) []PublishedMessage {
	var out []PublishedMessage
	for _, m := range b.Published() {
		if m.Message.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// ClosedRooms returns the rooms whose topics were torn down
func (b *RecordingBroadcaster) ClosedRooms() []model.RoomID {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.RoomID, len(b.closedRooms))
	copy(out, b.closedRooms)
	return out
}

// Reset clears all recorded calls
func (b *RecordingBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
	b.closedRooms = nil
}
