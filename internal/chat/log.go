package chat

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessageLog holds each room's append-only ordered message history in
// memory. Entries are immutable and never deleted; the per-room sequence
// number is simply the log position, so it is monotonic by construction.
type MessageLog struct {
	mu     sync.RWMutex
	byRoom map[string][]*Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{
		byRoom: make(map[string][]*Message),
	}
}

// Append stores a new message at the end of the room's log and returns it.
// Content is accepted verbatim, empty content included; kind defaults to
// text when the client didn't declare one.
func (l *MessageLog) Append(roomID, senderID, senderName, content, kind string) *Message {
	if kind == "" {
		kind = KindText
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := &Message{
		ID:         ulid.Make().String(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		Kind:       kind,
		Seq:        int64(len(l.byRoom[roomID]) + 1),
		SentAt:     time.Now(),
	}
	l.byRoom[roomID] = append(l.byRoom[roomID], msg)
	return msg
}

// Tail returns the room's most recent message, if it has any.
func (l *MessageLog) Tail(roomID string) (*Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	msgs := l.byRoom[roomID]
	if len(msgs) == 0 {
		return nil, false
	}
	return msgs[len(msgs)-1], true
}

// History returns the room's full log in insertion order. Unknown rooms
// yield an empty slice, not an error.
func (l *MessageLog) History(roomID string) []*Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	msgs := l.byRoom[roomID]
	out := make([]*Message, len(msgs))
	copy(out, msgs)
	return out
}

// Count returns the number of messages in the room's log.
func (l *MessageLog) Count(roomID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byRoom[roomID])
}
