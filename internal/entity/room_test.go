package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOppositeSymbol(t *testing.T) {
	assert.Equal(t, PlayerO, OppositeSymbol(PlayerX))
	assert.Equal(t, PlayerX, OppositeSymbol(PlayerO))
}

func TestRoom_FindPlayer(t *testing.T) {
	t.Run("Returns the member with a matching id", func(t *testing.T) {
		// Given: a room with two players
		room := &Room{
			Players: []*Player{
				{ID: "p1", Symbol: PlayerX},
				{ID: "p2", Symbol: PlayerO},
			},
		}

		// When: looking up the second player
		player := room.FindPlayer("p2")

		// Then: the membership record is returned
		require.NotNil(t, player)
		assert.Equal(t, PlayerO, player.Symbol)
	})

	t.Run("Returns nil for a stranger", func(t *testing.T) {
		room := &Room{Players: []*Player{{ID: "p1", Symbol: PlayerX}}}

		assert.Nil(t, room.FindPlayer("p2"))
	})
}

func TestRoom_RemovePlayer(t *testing.T) {
	t.Run("Removes a member and keeps the rest", func(t *testing.T) {
		// Given: a full room
		room := &Room{
			Players: []*Player{
				{ID: "p1", Symbol: PlayerX},
				{ID: "p2", Symbol: PlayerO},
			},
		}

		// When: the first player is removed
		removed := room.RemovePlayer("p1")

		// Then: only the second player remains
		assert.True(t, removed)
		require.Len(t, room.Players, 1)
		assert.Equal(t, "p2", room.Players[0].ID)
	})

	t.Run("Reports false for a stranger", func(t *testing.T) {
		room := &Room{Players: []*Player{{ID: "p1", Symbol: PlayerX}}}

		assert.False(t, room.RemovePlayer("p2"))
		assert.Len(t, room.Players, 1)
	})
}

func TestRoom_IsFull(t *testing.T) {
	room := &Room{Players: []*Player{{ID: "p1", Symbol: PlayerX}}}
	assert.False(t, room.IsFull())

	room.Players = append(room.Players, &Player{ID: "p2", Symbol: PlayerO})
	assert.True(t, room.IsFull())
}

func TestRoom_Clone(t *testing.T) {
	// Given: a room with a decided game
	line := [3]int{0, 4, 8}
	room := &Room{
		ID: "r1",
		Players: []*Player{
			{ID: "p1", Symbol: PlayerX},
			{ID: "p2", Symbol: PlayerO},
		},
		Game: &GameState{
			CurrentTurn: PlayerX,
			Winner:      PlayerX,
			WinningLine: &line,
		},
		Version: 3,
	}

	// When: cloning and mutating the copy
	clone := room.Clone()
	clone.Players[0].Symbol = PlayerO
	clone.Game.Winner = EmptyCell
	clone.Game.WinningLine[0] = 7

	// Then: the original is untouched
	assert.Equal(t, PlayerX, room.Players[0].Symbol)
	assert.Equal(t, PlayerX, room.Game.Winner)
	assert.Equal(t, 0, room.Game.WinningLine[0])
	assert.Equal(t, int64(3), clone.Version)
}
