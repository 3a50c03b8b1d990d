package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Message is the envelope for every client and server frame.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player       *entity.Player    `json:"player,omitempty"`
	RoomID       string            `json:"room_id,omitempty"`
	Cell         *int              `json:"cell,omitempty"`
	Game         *entity.GameState `json:"game,omitempty"`
	PlayersCount int               `json:"players_count,omitempty"`
	Error        string            `json:"error,omitempty"`
}

func newMessage(action string, payload any) (*Message, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		Action:  action,
		Payload: payloadJSON,
	}, nil
}
