package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type sqliteRegistry struct {
	conn *sql.DB
	ttl  time.Duration
	now  func() time.Time
}

// NewSQLiteRegistry - durable registry on a local file; rows past their
// expiry are treated as absent and purged lazily.
func NewSQLiteRegistry(conn *sql.DB, ttl time.Duration) RoomRegistry {
	return &sqliteRegistry{
		conn: conn,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (that *sqliteRegistry) Create(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	now := that.now().Unix()

	// an expired row still occupying the id is fair game
	_, err = that.conn.ExecContext(ctx, `DELETE FROM rooms WHERE id = ? AND expires_at <= ?`, room.ID, now)
	if err != nil {
		return fmt.Errorf("failed to purge expired room: %w", err)
	}

	result, err := that.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO rooms (id, payload, version, expires_at) VALUES (?, ?, ?, ?)`,
		room.ID, roomJSON, room.Version, that.expiry(),
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert result: %w", err)
	}

	if rows == 0 {
		return ErrRoomAlreadyExists
	}

	return nil
}

func (that *sqliteRegistry) Get(ctx context.Context, id string) (*entity.Room, error) {
	var payload []byte

	err := that.conn.QueryRowContext(ctx,
		`SELECT payload FROM rooms WHERE id = ? AND expires_at > ?`,
		id, that.now().Unix(),
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal(payload, &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *sqliteRegistry) Update(ctx context.Context, room *entity.Room) error {
	expected := room.Version
	room.Version++

	roomJSON, err := json.Marshal(room)
	if err != nil {
		room.Version = expected
		return fmt.Errorf("could not marshal room: %w", err)
	}

	result, err := that.conn.ExecContext(ctx,
		`UPDATE rooms SET payload = ?, version = ?, expires_at = ? WHERE id = ? AND version = ? AND expires_at > ?`,
		roomJSON, room.Version, that.expiry(), room.ID, expected, that.now().Unix(),
	)
	if err != nil {
		room.Version = expected
		return fmt.Errorf("failed to update room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		room.Version = expected
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if rows == 0 {
		room.Version = expected

		if _, err = that.Get(ctx, room.ID); errors.Is(err, ErrRoomNotFound) {
			return ErrRoomNotFound
		}

		return ErrVersionConflict
	}

	return nil
}

func (that *sqliteRegistry) Delete(ctx context.Context, id string) error {
	if _, err := that.conn.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}

func (that *sqliteRegistry) expiry() int64 {
	return that.now().Add(that.ttl).Unix()
}
