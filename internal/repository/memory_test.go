package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

func newTestRoom(id string) *entity.Room {
	return entity.NewRoom(id, &entity.Player{ID: "p1", Symbol: entity.PlayerX}, tictactoe.NewGameState())
}

func TestMemoryRegistry_Create(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	t.Run("Create_Success", func(t *testing.T) {
		// Given: a fresh room
		room := newTestRoom("r1")

		// When: Create is called
		err := registry.Create(ctx, room)

		// Then: the room is stored and readable
		require.NoError(t, err)

		stored, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", stored.ID)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("Create_AlreadyExists", func(t *testing.T) {
		// When: creating the same id again
		err := registry.Create(ctx, newTestRoom("r1"))

		// Then: the collision is reported
		require.ErrorIs(t, err, ErrRoomAlreadyExists)
	})
}

func TestMemoryRegistry_Get(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := registry.Get(ctx, "missing")

		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("Get_ReturnsACopy", func(t *testing.T) {
		// Given: a stored room
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		// When: mutating what Get returned
		room, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		room.Players[0].Symbol = entity.PlayerO

		// Then: the stored record is unaffected
		stored, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, stored.Players[0].Symbol)
	})
}

func TestMemoryRegistry_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Update_Success", func(t *testing.T) {
		// Given: a stored room
		registry := NewMemoryRegistry()
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		room, err := registry.Get(ctx, "r1")
		require.NoError(t, err)

		// When: updating at the current version
		room.Game.Board[0] = entity.PlayerX
		err = registry.Update(ctx, room)

		// Then: the write lands and the version is bumped
		require.NoError(t, err)
		assert.Equal(t, int64(2), room.Version)

		stored, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, stored.Game.Board[0])
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("Update_VersionConflict", func(t *testing.T) {
		// Given: two readers holding the same version
		registry := NewMemoryRegistry()
		require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

		first, err := registry.Get(ctx, "r1")
		require.NoError(t, err)
		second, err := registry.Get(ctx, "r1")
		require.NoError(t, err)

		// When: both try to write
		require.NoError(t, registry.Update(ctx, first))
		err = registry.Update(ctx, second)

		// Then: the second write loses
		require.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		registry := NewMemoryRegistry()

		err := registry.Update(ctx, newTestRoom("missing"))

		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestMemoryRegistry_Delete(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	// Given: a stored room
	require.NoError(t, registry.Create(ctx, newTestRoom("r1")))

	// When: Delete is called
	err := registry.Delete(ctx, "r1")

	// Then: the room is gone and deleting again is a no-op
	require.NoError(t, err)

	_, err = registry.Get(ctx, "r1")
	require.ErrorIs(t, err, ErrRoomNotFound)

	require.NoError(t, registry.Delete(ctx, "r1"))
}
