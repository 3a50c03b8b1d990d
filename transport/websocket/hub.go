package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// session is one client connection; writes are serialized per connection
// because broadcasts and direct replies come from different goroutines.
type session struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	playerID string
}

func (that *session) send(msg *Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Hub fans room events out to the subscribed connections. It is the
// direct-relay Notifier and the local delivery end of the redis broker.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*session]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*session]struct{}),
	}
}

func (that *Hub) Subscribe(roomID string, sess *session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	subscribers, ok := that.rooms[roomID]
	if !ok {
		subscribers = make(map[*session]struct{})
		that.rooms[roomID] = subscribers
	}

	subscribers[sess] = struct{}{}
}

func (that *Hub) Unsubscribe(roomID string, sess *session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.unsubscribeLocked(roomID, sess)
}

// DropSession - removes the session everywhere, returning the room ids it was in.
func (that *Hub) DropSession(sess *session) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var roomIDs []string
	for roomID, subscribers := range that.rooms {
		if _, ok := subscribers[sess]; ok {
			roomIDs = append(roomIDs, roomID)
			that.unsubscribeLocked(roomID, sess)
		}
	}

	return roomIDs
}

func (that *Hub) Broadcast(_ context.Context, roomID, event string, payload any) error {
	msg, err := newMessage(event, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.RLock()
	subscribers := make([]*session, 0, len(that.rooms[roomID]))
	for sess := range that.rooms[roomID] {
		subscribers = append(subscribers, sess)
	}
	that.mu.RUnlock()

	for _, sess := range subscribers {
		if err = sess.send(msg); err != nil {
			that.logger.Error("failed to send event", "roomID", roomID, "event", event, "error", err)
		}
	}

	return nil
}

func (that *Hub) unsubscribeLocked(roomID string, sess *session) {
	subscribers, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(subscribers, sess)

	if len(subscribers) == 0 {
		delete(that.rooms, roomID)
	}
}
