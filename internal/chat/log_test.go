package chat

import (
	"sync"
	"testing"
)

func TestAppendAssignsSequence(t *testing.T) {
	messages := NewMessageLog()

	for want := int64(1); want <= 3; want++ {
		msg := messages.Append("room-1", "user-1", "Alice", "hello", "text")
		if msg.Seq != want {
			t.Errorf("Append() seq = %d, want %d", msg.Seq, want)
		}
	}

	// A different room keeps its own sequence.
	if msg := messages.Append("room-2", "user-1", "Alice", "hi", "text"); msg.Seq != 1 {
		t.Errorf("Append() in a fresh room seq = %d, want 1", msg.Seq)
	}
}

func TestAppendAcceptsEmptyContent(t *testing.T) {
	messages := NewMessageLog()

	msg := messages.Append("room-1", "user-1", "Alice", "", "")
	if msg.Content != "" {
		t.Errorf("Append() content = %q, want empty content stored verbatim", msg.Content)
	}
	if msg.Kind != KindText {
		t.Errorf("Append() kind = %q, want default %q", msg.Kind, KindText)
	}
	if msg.ID == "" {
		t.Error("Append() did not assign a message id")
	}
}

func TestTail(t *testing.T) {
	messages := NewMessageLog()

	if _, ok := messages.Tail("room-1"); ok {
		t.Error("Tail() on an empty room should report none")
	}

	messages.Append("room-1", "user-1", "Alice", "first", "text")
	messages.Append("room-1", "user-1", "Alice", "second", "text")

	tail, ok := messages.Tail("room-1")
	if !ok {
		t.Fatal("Tail() should find the last message")
	}
	if tail.Content != "second" {
		t.Errorf("Tail() content = %q, want %q", tail.Content, "second")
	}
}

func TestHistoryUnknownRoomIsEmpty(t *testing.T) {
	messages := NewMessageLog()

	history := messages.History("never-seen")
	if history == nil {
		t.Fatal("History() returned nil, want an empty slice")
	}
	if len(history) != 0 {
		t.Errorf("History() returned %d messages for an unknown room, want 0", len(history))
	}
}

func TestHistoryKeepsInsertionOrder(t *testing.T) {
	messages := NewMessageLog()
	contents := []string{"a", "b", "c", "d"}
	for _, content := range contents {
		messages.Append("room-1", "user-1", "Alice", content, "text")
	}

	history := messages.History("room-1")
	if len(history) != len(contents) {
		t.Fatalf("History() returned %d messages, want %d", len(history), len(contents))
	}
	for i, msg := range history {
		if msg.Content != contents[i] {
			t.Errorf("History()[%d] = %q, want %q", i, msg.Content, contents[i])
		}
		if msg.Seq != int64(i+1) {
			t.Errorf("History()[%d] seq = %d, want %d", i, msg.Seq, i+1)
		}
	}
}

func TestConcurrentAppendsNeverShareASequence(t *testing.T) {
	messages := NewMessageLog()
	const senders = 8
	const perSender = 50

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				messages.Append("room-1", "user", "User", "x", "text")
			}
		}()
	}
	wg.Wait()

	history := messages.History("room-1")
	if len(history) != senders*perSender {
		t.Fatalf("History() has %d messages, want %d", len(history), senders*perSender)
	}

	seen := make(map[int64]bool, len(history))
	for _, msg := range history {
		if seen[msg.Seq] {
			t.Fatalf("sequence %d assigned twice", msg.Seq)
		}
		seen[msg.Seq] = true
	}
}
