package chat

import (
	"errors"
	"time"
)

// ErrInvalidInput marks events that are missing a required field.
// The relay never surfaces these to the sender; they are logged and dropped.
var ErrInvalidInput = errors.New("invalid input")

// KindText is the default message kind when a client doesn't declare one.
const KindText = "text"

// ---------------------------------------------
// Core State Models
// ---------------------------------------------

// Session binds a live connection to a registered identity.
// A userId may reappear under a new session after a reconnect;
// the old session is never merged into the new one.
type Session struct {
	ID          string    `json:"sessionId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Message is an immutable entry in a room's log. Seq is the position
// within the room; ordering only matters per-room, never across rooms.
type Message struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"` // Denormalized for UI speed (snapshot at send time)
	Content    string    `json:"content"`
	Kind       string    `json:"kind"`
	Seq        int64     `json:"seq"`
	SentAt     time.Time `json:"sentAt"`
}

// Member is a persisted room membership entry. The display name is a
// snapshot taken when the member was added, not a live lookup.
type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// ---------------------------------------------
// Read-only Snapshot Models (HTTP API)
// ---------------------------------------------

// RoomInfo is a point-in-time copy of a room's metadata and member set.
type RoomInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	IsGroup     bool      `json:"isGroup"`
	CreatedAt   time.Time `json:"createdAt"`
	Members     []Member  `json:"members"`
}

// RoomSummary augments RoomInfo with data computed from the message log.
type RoomSummary struct {
	RoomInfo
	LastMessage  *Message `json:"lastMessage,omitempty"`
	MessageCount int      `json:"messageCount"`
}
