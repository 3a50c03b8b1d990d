package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/notifier"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// RoomService coordinates every room mutation: load, validate against the
// engine, persist, broadcast. Nothing else writes to a room.
type RoomService interface {
	Create(ctx context.Context, roomID, playerID string) (*entity.Room, *entity.Player, error)
	Join(ctx context.Context, roomID, playerID string) (*entity.Room, *entity.Player, error)
	Move(ctx context.Context, roomID, playerID string, cell int) (*entity.Room, error)
	Restart(ctx context.Context, roomID string) (*entity.Room, error)
	Leave(ctx context.Context, roomID, playerID string) (*entity.Room, error)

	Get(ctx context.Context, roomID string) (*entity.Room, error)
}

type roomService struct {
	logger   *slog.Logger
	registry repository.RoomRegistry
	notifier notifier.Notifier
}

func NewRoomService(logger *slog.Logger, registry repository.RoomRegistry, notify notifier.Notifier) RoomService {
	return &roomService{
		logger:   logger,
		registry: registry,
		notifier: notify,
	}
}

// Create - registers a room under the shared code; the creator always gets X.
func (that *roomService) Create(ctx context.Context, roomID, playerID string) (*entity.Room, *entity.Player, error) {
	player := &entity.Player{ID: playerID, Symbol: entity.PlayerX}
	room := entity.NewRoom(roomID, player, tictactoe.NewGameState())

	if err := that.registry.Create(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.broadcastState(ctx, room)

	return room, player, nil
}

// Join - adds the second player, or echoes an existing membership unchanged.
func (that *roomService) Join(ctx context.Context, roomID, playerID string) (*entity.Room, *entity.Player, error) {
	room, err := that.registry.Get(ctx, roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if member := room.FindPlayer(playerID); member != nil {
		return room, member, nil
	}

	if room.IsFull() {
		return nil, nil, fmt.Errorf("room %s: %w", roomID, apperror.ErrRoomFull)
	}

	player := &entity.Player{
		ID:     playerID,
		Symbol: entity.OppositeSymbol(room.Players[0].Symbol),
	}
	room.Players = append(room.Players, player)

	if err = that.registry.Update(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastState(ctx, room)
	that.broadcast(ctx, room.ID, notifier.EventPlayerJoined, notifier.MembershipPayload{
		PlayersCount: len(room.Players),
	})

	return room, player, nil
}

// Move - applies one turn. Any precondition failure is a hard rejection:
// no state change, no broadcast.
func (that *roomService) Move(ctx context.Context, roomID, playerID string, cell int) (*entity.Room, error) {
	room, err := that.registry.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	player := room.FindPlayer(playerID)
	if player == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, apperror.ErrNotAMember)
	}

	if err = tictactoe.ApplyMove(room.Game, player.Symbol, cell); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.registry.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastState(ctx, room)

	return room, nil
}

// Restart - replaces the game state, keeping players and their symbols.
// Deliberately any caller naming a valid room may reset it.
func (that *roomService) Restart(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.registry.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	room.Game = tictactoe.NewGameState()

	if err = that.registry.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastState(ctx, room)

	return room, nil
}

// Leave - removes the player; an emptied room is deleted from the registry.
func (that *roomService) Leave(ctx context.Context, roomID, playerID string) (*entity.Room, error) {
	room, err := that.registry.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if !room.RemovePlayer(playerID) {
		return nil, fmt.Errorf("room %s: %w", roomID, apperror.ErrNotAMember)
	}

	if len(room.Players) == 0 {
		if err = that.registry.Delete(ctx, roomID); err != nil {
			return nil, fmt.Errorf("failed to delete room: %w", err)
		}

		that.logger.Info("room deleted", "roomID", roomID)

		return room, nil
	}

	if err = that.registry.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcast(ctx, room.ID, notifier.EventPlayerLeft, notifier.MembershipPayload{
		PlayersCount: len(room.Players),
	})

	return room, nil
}

func (that *roomService) Get(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.registry.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return room, nil
}

func (that *roomService) broadcastState(ctx context.Context, room *entity.Room) {
	that.broadcast(ctx, room.ID, notifier.EventGameState, room.Game)
}

// broadcast - state is already persisted; a failed fan-out is logged, not reconciled.
func (that *roomService) broadcast(ctx context.Context, roomID, event string, payload any) {
	if err := that.notifier.Broadcast(ctx, roomID, event, payload); err != nil {
		that.logger.Error("failed to broadcast event", "roomID", roomID, "event", event, "error", err)
	}
}
