package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
)

type Server struct {
	logger *slog.Logger
	rooms  service.RoomService
	hub    *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, sess *session, msg *Message) error
}

func New(logger *slog.Logger, rooms service.RoomService, hub *Hub) *Server {
	server := &Server{
		logger: logger,
		rooms:  rooms,
		hub:    hub,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *session, *Message) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:create"] = server.handleCreateGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:restart"] = server.handleGameRestart
	server.handlers["game:leave"] = server.handleGameLeave

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the connection and pumps messages until it drops.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sess := &session{conn: conn}

	defer func() {
		that.handleDisconnect(ctx, sess)

		if err = conn.Close(); err != nil {
			log.Error("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	for {
		var msg Message
		if err = conn.ReadJSON(&msg); err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Error("unknown action", "action", msg.Action)

			if err = that.sendError(sess, msg.Action, "unknown action"); err != nil {
				log.Error("failed to send error response", "error", err)
			}

			continue
		}

		if err = handler(ctx, sess, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) reply(sess *session, action string, payload Payload) error {
	msg, err := newMessage(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = sess.send(msg); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendError(sess *session, action, errorMsg string) error {
	return that.reply(sess, action, Payload{Error: errorMsg})
}
