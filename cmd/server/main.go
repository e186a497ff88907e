package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"chat-relay/internal/chat"
	"chat-relay/internal/config"
	myMiddleware "chat-relay/internal/middleware"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Config
	cfg := config.Load()

	// 2. State Stores (owned here, passed into the hub and handlers;
	// no ambient globals)
	registry := chat.NewSessionRegistry()
	rooms := chat.NewRoomDirectory(cfg.DefaultRoomName)
	rooms.EnsureDefaultRoom()
	messages := chat.NewMessageLog()
	log.Println("✅ In-memory stores initialized")

	// 3. The Hub (single routing loop)
	hub := chat.NewHub(registry, rooms, messages)
	go hub.Run()
	log.Println("✅ Hub started")

	// 4. Access Control
	guard := myMiddleware.NewOriginGuard(cfg.AllowedOrigins)

	// 5. Handlers & Routes
	handler := chat.NewHandler(hub, registry, rooms, messages, guard)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(guard.Handle)

	// Read-only query interface
	r.Get("/health", handler.Health)
	r.Get("/rooms", handler.ListRooms)
	r.Get("/messages/{roomID}", handler.RoomMessages)

	// Real-time interface
	r.Get("/ws", handler.ServeWs)

	srv := &http.Server{
		Addr:        cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Relay server starting on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ ListenAndServe: %v", err)
		}
	}()

	// 6. Graceful Shutdown (SIGINT/SIGTERM)
	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": srv.Shutdown,
		"hub": func(context.Context) error {
			return hub.Shutdown(shutdownTimeout)
		},
	})
	exitCode := <-wait
	log.Printf("Relay server exited with code %d", exitCode)
	os.Exit(exitCode)
}
