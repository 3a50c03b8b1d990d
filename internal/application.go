package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/notifier"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := websocket.NewHub(logger)

	// the hub is the direct-relay notifier; redis storage swaps in the
	// pub/sub broker and relays published events back into the hub.
	var notify notifier.Notifier = hub

	var registry repository.RoomRegistry

	switch conf.Storage.Type {
	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		registry = repository.NewRedisRegistry(redisStorage.Connection, conf.Storage.RoomTTL)

		broker := notifier.NewRedisBroker(logger, redisStorage.Connection)
		notify = broker

		go func() {
			if relayErr := broker.Relay(ctx, hub); relayErr != nil {
				log.Error("event relay stopped", "error", relayErr)
			}
		}()
	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("could not open sqlite storage: %w", err)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not init sqlite storage: %w", err)
		}

		registry = repository.NewSQLiteRegistry(sqliteStorage.Connection, conf.Storage.RoomTTL)
	default:
		registry = repository.NewMemoryRegistry()
	}

	rooms := service.NewRoomService(logger, registry, notify)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(logger, conf.HTTPPort, rooms); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, rooms, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
