package chat

import "log"

// Connection lifecycle: a connection arrives unregistered, may register
// exactly once, may join any number of rooms for delivery purposes, and
// ends at disconnect. All handlers below run on the hub's run loop.

// handleRegister turns a raw connection into a registered session and
// announces the arrival: membership in the default room, a user_joined to
// the room's other subscribers, and a global users_update.
func (h *Hub) handleRegister(c *Client, event InboundEvent) {
	if _, ok := h.registry.Lookup(c); ok {
		log.Printf("connection %s is already registered; ignoring register", c.addr)
		return
	}

	session, err := h.registry.Register(c, event.UserID, event.DisplayName)
	if err != nil {
		// The connection stays unregistered: its message and typing
		// events will be dropped until a valid register arrives.
		log.Printf("dropping register from %s: %v", c.addr, err)
		return
	}

	h.rooms.AddMember(DefaultRoomID, session.UserID, session.DisplayName)
	h.subscribe(c, DefaultRoomID)

	if payload, ok := marshalEvent(presenceEvent{
		Type:    EventUserJoined,
		User:    session,
		Message: session.DisplayName + " joined the chat",
	}); ok {
		h.broadcastRoom(DefaultRoomID, payload, c)
	}
	h.broadcastUsersUpdate()
}

// handleJoinChat subscribes the connection to a room's delivery audience.
// This is delivery-scope only: no membership change, no broadcast. The room
// is created lazily, so any client-supplied roomId becomes a valid room.
func (h *Hub) handleJoinChat(c *Client, event InboundEvent) {
	if event.RoomID == "" {
		log.Printf("dropping join_chat without roomId from %s", c.addr)
		return
	}
	h.rooms.GetOrCreate(event.RoomID)
	h.subscribe(c, event.RoomID)
}

// handleDisconnect tears a connection down. Safe to invoke on
// partially-registered state and idempotent: a second disconnect for the
// same connection is a no-op.
func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	session, registered := h.registry.Lookup(c)

	delete(h.clients, c)
	h.unsubscribeAll(c)
	close(c.send)

	if !registered {
		return
	}

	h.rooms.RemoveMember(DefaultRoomID, session.UserID)

	if payload, ok := marshalEvent(presenceEvent{
		Type:    EventUserLeft,
		User:    session,
		Message: session.DisplayName + " left the chat",
	}); ok {
		h.broadcastRoom(DefaultRoomID, payload, nil)
	}

	h.registry.Remove(c)
	h.broadcastUsersUpdate()
}
