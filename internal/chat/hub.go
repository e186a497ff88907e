package chat

import (
	"context"
	"log"
	"time"
)

// inboundFrame pairs a decoded client event with the connection it came from.
type inboundFrame struct {
	client *Client
	event  InboundEvent
}

// Hub is the central router. Every inbound event from every connection is
// drained by the single run() goroutine, so all routing decisions and all
// subscription mutations are serialized by design. The three state stores
// carry their own locks and are never touched while holding another's.
//
// Subscriptions are transport-level delivery bindings (who receives a
// room's events right now) and are deliberately distinct from the room
// directory's persistent membership.
type Hub struct {
	registry *SessionRegistry
	rooms    *RoomDirectory
	log      *MessageLog

	// The State. Only the run loop touches these maps, so they are
	// thread-safe by design.
	clients       map[*Client]bool
	subscriptions map[string]map[*Client]bool // roomID -> delivery audience

	// The Pipes (Channels). These are the ONLY way to interact with the Hub.
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(registry *SessionRegistry, rooms *RoomDirectory, messages *MessageLog) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:      registry,
		rooms:         rooms,
		log:           messages,
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan inboundFrame),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// Run is the infinite loop that manages the state. It runs in its OWN
// goroutine and returns only when Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAllClients()
			return

		// CASE 1: Someone connects (not yet registered as a user)
		case client := <-h.register:
			h.clients[client] = true

		// CASE 2: Someone disconnects
		case client := <-h.unregister:
			h.handleDisconnect(client)

		// CASE 3: A client event to route
		case frame := <-h.inbound:
			h.dispatch(frame.client, frame.event)
		}
	}
}

// Shutdown stops the run loop and closes every live connection. It returns
// context.DeadlineExceeded if the loop doesn't drain within the timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()

	select {
	case <-h.done:
		log.Println("hub shutdown complete")
		return nil
	case <-time.After(timeout):
		log.Println("hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}

func (h *Hub) dispatch(c *Client, event InboundEvent) {
	switch event.Type {
	case EventRegister:
		h.handleRegister(c, event)
	case EventJoinChat:
		h.handleJoinChat(c, event)
	case EventSendMessage:
		h.handleSendMessage(c, event)
	case EventTyping:
		h.handleTyping(c, event, true)
	case EventStopTyping:
		h.handleTyping(c, event, false)
	default:
		log.Printf("dropping unknown event %q from %s", event.Type, c.addr)
	}
}

func (h *Hub) closeAllClients() {
	log.Printf("closing %d client connections", len(h.clients))
	for client := range h.clients {
		if client.conn != nil {
			client.conn.Close()
		}
	}
	h.clients = make(map[*Client]bool)
	h.subscriptions = make(map[string]map[*Client]bool)
}

// ---------------------------------------------
// Subscriptions (run loop only)
// ---------------------------------------------

func (h *Hub) subscribe(c *Client, roomID string) {
	audience := h.subscriptions[roomID]
	if audience == nil {
		audience = make(map[*Client]bool)
		h.subscriptions[roomID] = audience
	}
	audience[c] = true
}

func (h *Hub) unsubscribeAll(c *Client) {
	for roomID, audience := range h.subscriptions {
		delete(audience, c)
		if len(audience) == 0 {
			delete(h.subscriptions, roomID)
		}
	}
}

// ---------------------------------------------
// Fan-out (run loop only)
// ---------------------------------------------

// deliver hands a payload to one subscriber, fire-and-forget. A slow peer
// with a full buffer is logged and skipped, never retried and never allowed
// to stall ingestion for everyone else.
func (h *Hub) deliver(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		log.Printf("send buffer full for %s; skipping delivery", c.addr)
	}
}

// broadcastRoom delivers a payload to every current subscriber of the room,
// optionally excluding one connection (the sender of a typing signal, or a
// freshly joined user who shouldn't be told about themselves).
func (h *Hub) broadcastRoom(roomID string, payload []byte, exclude *Client) {
	for client := range h.subscriptions[roomID] {
		if client == exclude {
			continue
		}
		h.deliver(client, payload)
	}
}

// broadcastAll delivers a payload to every connected client, registered
// or not. Used for the global presence broadcast.
func (h *Hub) broadcastAll(payload []byte) {
	for client := range h.clients {
		h.deliver(client, payload)
	}
}

// broadcastUsersUpdate pushes the full online set to everyone. Called
// whenever the online set changes.
func (h *Hub) broadcastUsersUpdate() {
	payload, ok := marshalEvent(usersUpdateEvent{
		Type:     EventUsersUpdate,
		Sessions: h.registry.ListOnline(),
	})
	if !ok {
		return
	}
	h.broadcastAll(payload)
}
