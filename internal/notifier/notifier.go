package notifier

import (
	"context"
	"encoding/json"
)

// Events fanned out to room subscribers. Delivery is at-most-once, no acks;
// a stale client recovers on its next accepted read of room state.
const (
	EventGameState    = "game:state"
	EventPlayerJoined = "player:joined"
	EventPlayerLeft   = "player:left"
)

type Notifier interface {
	Broadcast(ctx context.Context, roomID, event string, payload any) error
}

// Event is the wire envelope used when broadcasts cross a broker.
type Event struct {
	RoomID  string          `json:"room_id"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MembershipPayload struct {
	PlayersCount int `json:"players_count"`
}
