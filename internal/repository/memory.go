package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// memoryRegistry is the direct-relay shape: rooms live and die with the process.
type memoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewMemoryRegistry() RoomRegistry {
	return &memoryRegistry{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *memoryRegistry) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[room.ID]; ok {
		return ErrRoomAlreadyExists
	}

	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRegistry) Get(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRegistry) Update(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.rooms[room.ID]
	if !ok {
		return ErrRoomNotFound
	}

	if stored.Version != room.Version {
		return ErrVersionConflict
	}

	room.Version++
	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRegistry) Delete(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}
