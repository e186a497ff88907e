package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Handler exposes the real-time endpoint and the read-only query interface
// over the shared state stores. Queries are pure reads: unknown rooms yield
// empty results, never errors.
type Handler struct {
	hub      *Hub
	registry *SessionRegistry
	rooms    *RoomDirectory
	log      *MessageLog
	upgrader websocket.Upgrader
}

// OriginChecker is what we need from the access-control collaborator.
// This keeps packages loosely coupled.
type OriginChecker interface {
	CheckRequest(r *http.Request) bool
}

func NewHandler(hub *Hub, registry *SessionRegistry, rooms *RoomDirectory, messages *MessageLog, origins OriginChecker) *Handler {
	return &Handler{
		hub:      hub,
		registry: registry,
		rooms:    rooms,
		log:      messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.CheckRequest,
		},
	}
}

// ServeWs handles websocket requests from the peer. A denied origin fails
// the upgrade before any relay processing happens.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		addr: r.RemoteAddr,
	}
	client.hub.register <- client

	// Start the two pumps.
	// Note: These run in new goroutines, ServeWs returns immediately.
	go client.writePump()
	go client.readPump()
}

type healthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ActiveSessions int       `json:"activeSessions"`
	Rooms          int       `json:"rooms"`
}

// Health reports liveness plus the current session and room counts.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, healthResponse{
		Status:         "ok",
		Timestamp:      time.Now(),
		ActiveSessions: h.registry.Count(),
		Rooms:          h.rooms.Count(),
	})
}

// ListRooms returns every room with its last message and message count
// computed from the log.
func (h *Handler) ListRooms(w http.ResponseWriter, _ *http.Request) {
	infos := h.rooms.List()
	summaries := make([]RoomSummary, 0, len(infos))
	for _, info := range infos {
		summary := RoomSummary{
			RoomInfo:     info,
			MessageCount: h.log.Count(info.ID),
		}
		if tail, ok := h.log.Tail(info.ID); ok {
			summary.LastMessage = tail
		}
		summaries = append(summaries, summary)
	}
	writeJSON(w, summaries)
}

// RoomMessages returns the room's full history, oldest first. An unknown
// roomID is an empty array, not a 404.
func (h *Handler) RoomMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	writeJSON(w, h.log.History(roomID))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
