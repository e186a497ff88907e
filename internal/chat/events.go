package chat

import (
	"encoding/json"
	"log"
)

// Inbound event types (client -> server).
const (
	EventRegister    = "register"
	EventJoinChat    = "join_chat"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
)

// Outbound event types (server -> client).
const (
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventUsersUpdate    = "users_update"
	EventNewMessage     = "new_message"
	EventUserTyping     = "user_typing"
	EventUserStopTyping = "user_stop_typing"
)

// InboundEvent is the single envelope clients send over the socket.
// Fields beyond Type are filled depending on the event; there is no
// request/response correlation, so malformed events are simply dropped.
type InboundEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	RoomID      string `json:"roomId,omitempty"`
	Content     string `json:"content,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

// presenceEvent carries user_joined / user_left announcements to the
// default room, with a human-readable summary line.
type presenceEvent struct {
	Type    string   `json:"type"`
	User    *Session `json:"user"`
	Message string   `json:"message"`
}

// usersUpdateEvent carries the full online set, broadcast globally
// whenever it changes.
type usersUpdateEvent struct {
	Type     string     `json:"type"`
	Sessions []*Session `json:"sessions"`
}

type newMessageEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

// typingEvent doubles as user_typing and user_stop_typing; the stop
// variant omits the display name.
type typingEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	RoomID      string `json:"roomId"`
}

// marshalEvent encodes an outbound event, logging instead of failing:
// a payload we can't encode is treated like any other delivery failure.
func marshalEvent(v any) ([]byte, bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to encode outbound event: %v", err)
		return nil, false
	}
	return payload, true
}
