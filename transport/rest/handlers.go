package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
)

type handler struct {
	logger *slog.Logger
	rooms  service.RoomService
}

func newHandler(logger *slog.Logger, rooms service.RoomService) *handler {
	return &handler{
		logger: logger,
		rooms:  rooms,
	}
}

type gameRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id,omitempty"`
	Cell     *int   `json:"cell,omitempty"`
}

type gameResponse struct {
	Success bool              `json:"success,omitempty"`
	Symbol  string            `json:"symbol,omitempty"`
	Game    *entity.GameState `json:"game,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func (that *handler) createRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := that.decodeRequest(w, r)
	if !ok {
		return
	}

	if req.RoomID == "" || req.PlayerID == "" {
		that.respondError(w, http.StatusBadRequest, "room_id and player_id are required")
		return
	}

	room, player, err := that.rooms.Create(r.Context(), req.RoomID, req.PlayerID)
	if err != nil {
		that.writeServiceError(w, "createRoom", err)
		return
	}

	that.respond(w, http.StatusCreated, gameResponse{
		Success: true,
		Symbol:  player.Symbol,
		Game:    room.Game,
	})
}

func (that *handler) joinRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := that.decodeRequest(w, r)
	if !ok {
		return
	}

	if req.RoomID == "" || req.PlayerID == "" {
		that.respondError(w, http.StatusBadRequest, "room_id and player_id are required")
		return
	}

	room, player, err := that.rooms.Join(r.Context(), req.RoomID, req.PlayerID)
	if err != nil {
		that.writeServiceError(w, "joinRoom", err)
		return
	}

	that.respond(w, http.StatusOK, gameResponse{
		Success: true,
		Symbol:  player.Symbol,
		Game:    room.Game,
	})
}

func (that *handler) playerMove(w http.ResponseWriter, r *http.Request) {
	req, ok := that.decodeRequest(w, r)
	if !ok {
		return
	}

	if req.RoomID == "" || req.PlayerID == "" || req.Cell == nil {
		that.respondError(w, http.StatusBadRequest, "room_id, player_id and cell are required")
		return
	}

	room, err := that.rooms.Move(r.Context(), req.RoomID, req.PlayerID, *req.Cell)
	if err != nil {
		that.writeServiceError(w, "playerMove", err)
		return
	}

	that.respond(w, http.StatusOK, gameResponse{
		Success: true,
		Game:    room.Game,
	})
}

func (that *handler) restartGame(w http.ResponseWriter, r *http.Request) {
	req, ok := that.decodeRequest(w, r)
	if !ok {
		return
	}

	if req.RoomID == "" {
		that.respondError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	room, err := that.rooms.Restart(r.Context(), req.RoomID)
	if err != nil {
		that.writeServiceError(w, "restartGame", err)
		return
	}

	that.respond(w, http.StatusOK, gameResponse{
		Success: true,
		Game:    room.Game,
	})
}

func (that *handler) leaveRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := that.decodeRequest(w, r)
	if !ok {
		return
	}

	if req.RoomID == "" || req.PlayerID == "" {
		that.respondError(w, http.StatusBadRequest, "room_id and player_id are required")
		return
	}

	if _, err := that.rooms.Leave(r.Context(), req.RoomID, req.PlayerID); err != nil {
		that.writeServiceError(w, "leaveRoom", err)
		return
	}

	that.respond(w, http.StatusOK, gameResponse{Success: true})
}

func (that *handler) roomState(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	room, err := that.rooms.Get(r.Context(), roomID)
	if err != nil {
		that.writeServiceError(w, "roomState", err)
		return
	}

	that.respond(w, http.StatusOK, gameResponse{
		Success: true,
		Game:    room.Game,
	})
}

func (that *handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*gameRequest, bool) {
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	return &req, true
}

// writeServiceError - maps the coordinator's error taxonomy to status codes.
func (that *handler) writeServiceError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		that.respondError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, repository.ErrRoomAlreadyExists):
		that.respondError(w, http.StatusConflict, "room already exists")
	case errors.Is(err, apperror.ErrRoomFull):
		that.respondError(w, http.StatusConflict, "room is full")
	case errors.Is(err, repository.ErrVersionConflict):
		that.respondError(w, http.StatusConflict, "room was modified concurrently")
	case errors.Is(err, apperror.ErrNotAMember):
		that.respondError(w, http.StatusForbidden, "player is not in the room")
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrGameFinished):
		that.respondError(w, http.StatusBadRequest, err.Error())
	default:
		that.logger.Error("storage failure", "method", method, "error", err)
		that.respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	}
}

func (that *handler) respondError(w http.ResponseWriter, status int, message string) {
	that.respond(w, status, gameResponse{Error: message})
}

func (that *handler) respond(w http.ResponseWriter, status int, body gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
