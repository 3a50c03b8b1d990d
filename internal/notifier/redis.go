package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "room:"

// RedisBroker fans events out through pub/sub, one channel per room, so
// subscribers in any process see mutations made by any transport.
type RedisBroker struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRedisBroker(logger *slog.Logger, client *redis.Client) *RedisBroker {
	return &RedisBroker{
		logger: logger,
		client: client,
	}
}

func (that *RedisBroker) Broadcast(ctx context.Context, roomID, event string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	eventJSON, err := json.Marshal(Event{
		RoomID:  roomID,
		Event:   event,
		Payload: payloadJSON,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, channelPrefix+roomID, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Relay - forwards every published room event into a local notifier,
// typically the websocket hub. Blocks until the context is canceled.
func (that *RedisBroker) Relay(ctx context.Context, local Notifier) error {
	log := that.logger.With("component", "relay")

	pubsub := that.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	events := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-events:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error("failed to unmarshal event", "channel", msg.Channel, "error", err)
				continue
			}

			if err := local.Broadcast(ctx, event.RoomID, event.Event, event.Payload); err != nil {
				log.Error("failed to deliver event", "roomID", event.RoomID, "error", err)
			}
		}
	}
}
