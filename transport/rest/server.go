package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
)

// Start - starts the HTTP API for the broker+store shape.
func Start(logger *slog.Logger, port string, rooms service.RoomService) error {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      cors(newRouter(logger, rooms)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func newRouter(logger *slog.Logger, rooms service.RoomService) *mux.Router {
	h := newHandler(logger, rooms)

	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/game").Subrouter()
	api.HandleFunc("/create", h.createRoom).Methods(http.MethodPost)
	api.HandleFunc("/join", h.joinRoom).Methods(http.MethodPost)
	api.HandleFunc("/move", h.playerMove).Methods(http.MethodPost)
	api.HandleFunc("/restart", h.restartGame).Methods(http.MethodPost)
	api.HandleFunc("/leave", h.leaveRoom).Methods(http.MethodPost)
	api.HandleFunc("/state/{roomID}", h.roomState).Methods(http.MethodGet)

	return router
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
