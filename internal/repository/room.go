package repository

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrVersionConflict   = errors.New("room was modified concurrently")
)

// RoomRegistry is the storage-agnostic room store.
//
// Update is a conditional write: it succeeds only when the stored version
// still equals room.Version, and stores the record with version+1 (reflected
// back into the passed room). A lost race surfaces as ErrVersionConflict and
// is never retried here.
type RoomRegistry interface {
	Create(ctx context.Context, room *entity.Room) error
	Get(ctx context.Context, id string) (*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	Delete(ctx context.Context, id string) error
}
