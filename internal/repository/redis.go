package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const roomKeyPrefix = "room:"

// casScript swaps the stored room only if its version still matches.
// Returns 1 on success, 0 on version conflict, -1 when the key is gone.
var casScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	return -1
end
if cjson.decode(current)['version'] ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

type redisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry - durable registry; every write refreshes the room TTL.
func NewRedisRegistry(client *redis.Client, ttl time.Duration) RoomRegistry {
	return &redisRegistry{
		client: client,
		ttl:    ttl,
	}
}

func (that *redisRegistry) Create(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	ok, err := that.client.SetNX(ctx, roomKeyPrefix+room.ID, roomJSON, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if !ok {
		return ErrRoomAlreadyExists
	}

	return nil
}

func (that *redisRegistry) Get(ctx context.Context, id string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *redisRegistry) Update(ctx context.Context, room *entity.Room) error {
	expected := room.Version
	room.Version++

	roomJSON, err := json.Marshal(room)
	if err != nil {
		room.Version = expected
		return fmt.Errorf("could not marshal room: %w", err)
	}

	result, err := casScript.Run(ctx, that.client,
		[]string{roomKeyPrefix + room.ID},
		expected, roomJSON, that.ttl.Milliseconds(),
	).Int()
	if err != nil {
		room.Version = expected
		return fmt.Errorf("failed to update room: %w", err)
	}

	switch result {
	case 1:
		return nil
	case 0:
		room.Version = expected
		return ErrVersionConflict
	default:
		room.Version = expected
		return ErrRoomNotFound
	}
}

func (that *redisRegistry) Delete(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, roomKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}
