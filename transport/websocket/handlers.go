package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
)

// handleConnect issues a player id, or echoes the one the client kept from
// a previous session so rejoin works after a page reload.
func (that *Server) handleConnect(_ context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	if playerID == "" {
		playerID = uuid.NewString()
		log.Info("registered new player", "playerID", playerID)
	} else {
		log.Info("player reconnected", "playerID", playerID)
	}

	sess.playerID = playerID

	return that.reply(sess, msg.Action, Payload{
		Player: &entity.Player{ID: playerID},
	})
}

func (that *Server) handleCreateGame(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleCreateGame")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	playerID, ok := that.resolvePlayerID(sess, payloadReq)
	if !ok {
		return that.sendError(sess, msg.Action, "player is required")
	}

	if payloadReq.RoomID == "" {
		return that.sendError(sess, msg.Action, "room id is required")
	}

	// subscribe first so the creator receives the initial state broadcast
	that.hub.Subscribe(payloadReq.RoomID, sess)

	room, player, err := that.rooms.Create(ctx, payloadReq.RoomID, playerID)
	if err != nil {
		that.hub.Unsubscribe(payloadReq.RoomID, sess)
		log.Error("failed to create room", "roomID", payloadReq.RoomID, "error", err)

		return that.sendError(sess, msg.Action, fmt.Sprintf("room %s: %v", payloadReq.RoomID, err))
	}

	log.Info("room created", "roomID", room.ID, "playerID", player.ID)

	return that.reply(sess, msg.Action, Payload{
		Player: player,
		RoomID: room.ID,
		Game:   room.Game,
	})
}

func (that *Server) handleJoinGame(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	playerID, ok := that.resolvePlayerID(sess, payloadReq)
	if !ok {
		return that.sendError(sess, msg.Action, "player is required")
	}

	if payloadReq.RoomID == "" {
		return that.sendError(sess, msg.Action, "room id is required")
	}

	that.hub.Subscribe(payloadReq.RoomID, sess)

	room, player, err := that.rooms.Join(ctx, payloadReq.RoomID, playerID)
	if err != nil {
		that.hub.Unsubscribe(payloadReq.RoomID, sess)
		log.Error("failed to join room", "roomID", payloadReq.RoomID, "error", err)

		return that.sendError(sess, msg.Action, fmt.Sprintf("room %s: %v", payloadReq.RoomID, err))
	}

	log.Info("player joined room", "roomID", room.ID, "playerID", player.ID)

	return that.reply(sess, msg.Action, Payload{
		Player: player,
		RoomID: room.ID,
		Game:   room.Game,
	})
}

func (that *Server) handleGameTurn(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	playerID, ok := that.resolvePlayerID(sess, payloadReq)
	if !ok {
		return that.sendError(sess, msg.Action, "player is required")
	}

	if payloadReq.RoomID == "" {
		return that.sendError(sess, msg.Action, "room id is required")
	}

	if payloadReq.Cell == nil {
		return that.sendError(sess, msg.Action, "cell is required")
	}

	room, err := that.rooms.Move(ctx, payloadReq.RoomID, playerID, *payloadReq.Cell)
	if err != nil {
		log.Info("turn rejected", "roomID", payloadReq.RoomID, "playerID", playerID, "error", err)

		return that.sendError(sess, msg.Action, fmt.Sprintf("room %s: %v", payloadReq.RoomID, err))
	}

	log.Info("player made a turn", "roomID", room.ID, "playerID", playerID, "cell", *payloadReq.Cell)

	return that.reply(sess, msg.Action, Payload{
		RoomID: room.ID,
		Game:   room.Game,
	})
}

func (that *Server) handleGameRestart(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleGameRestart")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.RoomID == "" {
		return that.sendError(sess, msg.Action, "room id is required")
	}

	room, err := that.rooms.Restart(ctx, payloadReq.RoomID)
	if err != nil {
		log.Error("failed to restart game", "roomID", payloadReq.RoomID, "error", err)

		return that.sendError(sess, msg.Action, fmt.Sprintf("room %s: %v", payloadReq.RoomID, err))
	}

	log.Info("game restarted", "roomID", room.ID)

	return that.reply(sess, msg.Action, Payload{
		RoomID: room.ID,
		Game:   room.Game,
	})
}

func (that *Server) handleGameLeave(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	playerID, ok := that.resolvePlayerID(sess, payloadReq)
	if !ok {
		return that.sendError(sess, msg.Action, "player is required")
	}

	if payloadReq.RoomID == "" {
		return that.sendError(sess, msg.Action, "room id is required")
	}

	that.hub.Unsubscribe(payloadReq.RoomID, sess)

	if _, err = that.rooms.Leave(ctx, payloadReq.RoomID, playerID); err != nil {
		log.Error("failed to leave room", "roomID", payloadReq.RoomID, "error", err)

		return that.sendError(sess, msg.Action, fmt.Sprintf("room %s: %v", payloadReq.RoomID, err))
	}

	log.Info("player left room", "roomID", payloadReq.RoomID, "playerID", playerID)

	return that.reply(sess, msg.Action, Payload{RoomID: payloadReq.RoomID})
}

// handleDisconnect runs the leave contract for every room the dropped
// connection was subscribed to.
func (that *Server) handleDisconnect(ctx context.Context, sess *session) {
	log := that.logger.With("method", "handleDisconnect")

	roomIDs := that.hub.DropSession(sess)

	if sess.playerID == "" {
		return
	}

	for _, roomID := range roomIDs {
		_, err := that.rooms.Leave(ctx, roomID, sess.playerID)
		if err != nil && !errors.Is(err, repository.ErrRoomNotFound) && !errors.Is(err, apperror.ErrNotAMember) {
			log.Error("failed to leave room on disconnect", "roomID", roomID, "playerID", sess.playerID, "error", err)
			continue
		}

		log.Info("player disconnected from room", "roomID", roomID, "playerID", sess.playerID)
	}
}

func (that *Server) resolvePlayerID(sess *session, payload *Payload) (string, bool) {
	if payload.Player != nil && payload.Player.ID != "" {
		sess.playerID = payload.Player.ID
		return payload.Player.ID, true
	}

	if sess.playerID != "" {
		return sess.playerID, true
	}

	return "", false
}

func unmarshalPayload(msg *Message) (*Payload, error) {
	payload := &Payload{}

	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
