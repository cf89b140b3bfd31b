package realtime

import (
	"encoding/json"

	"github.com/playroom-games/playroom/internal/model"
)

// Message is the canonical wire envelope for all room events
type Message struct {
	Type    model.EventType `json:"type"`
	Payload any             `json:"payload,omitempty"`
}

// Encode marshals the message for transport. Marshal failures fall back to
// a bare error event so subscribers are never sent nothing.
func (m Message) Encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		data, _ = json.Marshal(Message{
			Type:    model.EventError,
			Payload: model.ErrorPayload{Message: "internal encoding error"},
		})
	}
	return data
}

// Broadcaster is the fan-out boundary used by the services layer.
// Publish is best-effort: no delivery acknowledgment is tracked.
type Broadcaster interface {
	// Publish sends a message to every connection subscribed to the room
	Publish(roomID model.RoomID, msg Message)

	// SendTo sends a message only to the given player's connections
	SendTo(roomID model.RoomID, playerID model.PlayerID, msg Message)

	// CloseRoom tears down the room's topic and disconnects subscribers
	CloseRoom(roomID model.RoomID)
}
