package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
)

func newSQLiteRegistry(t *testing.T, ttl time.Duration) RoomRegistry {
	t.Helper()

	sqliteStorage, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "rooms.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, sqliteStorage.Close())
	})

	require.NoError(t, sqliteStorage.Init(context.Background()))

	return NewSQLiteRegistry(sqliteStorage.Connection, ttl)
}

func TestSQLiteRegistry_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	registry := newSQLiteRegistry(t, time.Hour)

	// Given: a fresh room
	room := newTestRoom("r1")

	// When: Create is called
	err := registry.Create(ctx, room)

	// Then: the room round-trips
	require.NoError(t, err)

	stored, err := registry.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", stored.ID)
	assert.Equal(t, entity.PlayerX, stored.Players[0].Symbol)
	assert.Equal(t, int64(1), stored.Version)

	// And: creating the same id again collides
	require.ErrorIs(t, registry.Create(ctx, newTestRoom("r1")), ErrRoomAlreadyExists)
}

func TestSQLiteRegistry_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Update_Success", func(t *testing.T) {
		// Given: a stored room
		registry := newSQLiteRegistry(t, time.Hour)
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		room, err := registry.Get(ctx, "r1")
		require.NoError(t, err)

		// When: updating at the current version
		room.Game.Board[4] = entity.PlayerX
		err = registry.Update(ctx, room)

		// Then: the write lands with a bumped version
		require.NoError(t, err)
		assert.Equal(t, int64(2), room.Version)

		stored, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, stored.Game.Board[4])
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("Update_VersionConflict", func(t *testing.T) {
		// Given: two readers holding the same version
		registry := newSQLiteRegistry(t, time.Hour)
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
		registry := newSQLiteRegistry(t, time.Hour)

		err := registry.Update(ctx, newTestRoom("missing"))

		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestSQLiteRegistry_Delete(t *testing.T) {
	ctx := context.Background()
	registry := newSQLiteRegistry(t, time.Hour)

	require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

	require.NoError(t, registry.Delete(ctx, "r1"))

	_, err := registry.Get(ctx, "r1")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSQLiteRegistry_Expiry(t *testing.T) {
	ctx := context.Background()

	// Given: a registry whose writes are already expired
	registry := newSQLiteRegistry(t, -time.Second)
	require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

	// Then: the room reads as absent
	_, err := registry.Get(ctx, "r1")
	require.ErrorIs(t, err, ErrRoomNotFound)

	// And: the id is free for a new room
	require.NoError(t, registry.Create(ctx, newTestRoom("r1")))
}
