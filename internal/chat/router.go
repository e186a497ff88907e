package chat

import "log"

// Message and typing routing. Both resolve the sender through the session
// registry first: events from unregistered connections are best-effort
// dropped with a log line, never answered with an error.

// handleSendMessage appends the message to the room's log and fans the
// stored message out to every current subscriber of the room, the sender
// included. The audience is the delivery subscription set, not the room's
// persistent member set.
func (h *Hub) handleSendMessage(c *Client, event InboundEvent) {
	session, ok := h.registry.Lookup(c)
	if !ok {
		log.Printf("dropping send_message from unregistered connection %s", c.addr)
		return
	}
	if event.RoomID == "" {
		log.Printf("dropping send_message without roomId from %s", c.addr)
		return
	}

	// First message to an unknown room creates it, same as join_chat.
	h.rooms.GetOrCreate(event.RoomID)

	msg := h.log.Append(event.RoomID, session.UserID, session.DisplayName, event.Content, event.Kind)

	if payload, ok := marshalEvent(newMessageEvent{
		Type:    EventNewMessage,
		Message: msg,
	}); ok {
		h.broadcastRoom(event.RoomID, payload, nil)
	}
}

// handleTyping relays an ephemeral typing signal to every OTHER subscriber
// of the room. Nothing is stored.
func (h *Hub) handleTyping(c *Client, event InboundEvent, started bool) {
	session, ok := h.registry.Lookup(c)
	if !ok {
		log.Printf("dropping typing signal from unregistered connection %s", c.addr)
		return
	}
	if event.RoomID == "" {
		log.Printf("dropping typing signal without roomId from %s", c.addr)
		return
	}

	signal := typingEvent{
		Type:   EventUserStopTyping,
		UserID: session.UserID,
		RoomID: event.RoomID,
	}
	if started {
		signal.Type = EventUserTyping
		signal.DisplayName = session.DisplayName
	}

	if payload, ok := marshalEvent(signal); ok {
		h.broadcastRoom(event.RoomID, payload, c)
	}
}
