package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

func TestRedisRegistry_CreateAndGet(t *testing.T) {
	ctx, st := suite.New(t)

	registry := NewRedisRegistry(st.Storage, time.Hour)

	// Given: a fresh room
	room := newTestRoom("r1")

	// When: Create is called
	err := registry.Create(ctx, room)

	// Then: the room round-trips and carries a TTL
	require.NoError(t, err)

	stored, err := registry.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", stored.ID)
	assert.Equal(t, entity.PlayerX, stored.Players[0].Symbol)
	assert.Equal(t, int64(1), stored.Version)

	ttl, err := st.Storage.TTL(ctx, "room:r1").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	// And: creating the same id again collides
	require.ErrorIs(t, registry.Create(ctx, newTestRoom("r1")), ErrRoomAlreadyExists)
}

func TestRedisRegistry_Get_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	registry := NewRedisRegistry(st.Storage, time.Hour)

	_, err := registry.Get(ctx, "missing")

	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRedisRegistry_Update(t *testing.T) {
	t.Run("Update_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		registry := NewRedisRegistry(st.Storage, time.Hour)
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		room, err := registry.Get(ctx, "r1")
		require.NoError(t, err)

		// When: updating at the current version
		room.Game.Board[0] = entity.PlayerX
		err = registry.Update(ctx, room)

		// Then: the write lands with a bumped version and a fresh TTL
		require.NoError(t, err)
		assert.Equal(t, int64(2), room.Version)

		stored, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, stored.Game.Board[0])
		assert.Equal(t, int64(2), stored.Version)

		ttl, err := st.Storage.TTL(ctx, "room:r1").Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})

	t.Run("Update_VersionConflict", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: two readers holding the same version
		registry := NewRedisRegistry(st.Storage, time.Hour)
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		first, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		second, err := registry.Get(ctx, "r1")
		require.NoError(t, err)

		// When: both try to write
		require.NoError(t, registry.Update(ctx, first))
		err = registry.Update(ctx, second)

		// Then: the second write loses and keeps its version
		require.ErrorIs(t, err, ErrVersionConflict)
		assert.Equal(t, int64(1), second.Version)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		registry := NewRedisRegistry(st.Storage, time.Hour)

		err := registry.Update(ctx, newTestRoom("missing"))

		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestRedisRegistry_Delete(t *testing.T) {
	ctx, st := suite.New(t)

	registry := NewRedisRegistry(st.Storage, time.Hour)
	require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

	require.NoError(t, registry.Delete(ctx, "r1"))

	_, err := registry.Get(ctx, "r1")
	require.ErrorIs(t, err, ErrRoomNotFound)
}
