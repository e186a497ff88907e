package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	WSURL     = "ws://localhost:8080/ws"
	UserCount = 100 // ⚠️ Start small. Each user is one live WebSocket.
	MsgCount  = 20  // Messages per user
	RoomID    = "load-test"
)

type event struct {
	Type        string `json:"type"`
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	RoomID      string `json:"roomId,omitempty"`
	Content     string `json:"content,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

var received int64

func main() {
	log.Printf("🔥 STARTING STRESS TEST: %d users, %d messages each...", UserCount, MsgCount)
	var wg sync.WaitGroup

	for i := 0; i < UserCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runUser(id)
		}(i)
	}

	wg.Wait()
	log.Printf("✅ LOAD TEST COMPLETE: %d events received across all users", atomic.LoadInt64(&received))
}

func runUser(id int) {
	name := fmt.Sprintf("load_user_%d", id)

	conn, _, err := websocket.DefaultDialer.Dial(WSURL, nil)
	if err != nil {
		log.Printf("❌ WS Connect Fail [%s]: %v", name, err)
		return
	}
	defer conn.Close()

	// Drain everything the relay fans out to us, counting events
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			// Batched frames are newline-separated
			for _, line := range bytes.Split(raw, []byte{'\n'}) {
				var ev event
				if err := json.Unmarshal(line, &ev); err == nil && ev.Type != "" {
					atomic.AddInt64(&received, 1)
				}
			}
		}
	}()

	// Register and join the shared room
	if err := conn.WriteJSON(event{Type: "register", DisplayName: name}); err != nil {
		log.Printf("❌ Register Fail [%s]: %v", name, err)
		return
	}
	if err := conn.WriteJSON(event{Type: "join_chat", RoomID: RoomID}); err != nil {
		log.Printf("❌ Join Fail [%s]: %v", name, err)
		return
	}

	// Spam loop
	for i := 0; i < MsgCount; i++ {
		msg := event{
			Type:    "send_message",
			RoomID:  RoomID,
			Content: fmt.Sprintf("LoadTest Msg %d from %s", i, name),
			Kind:    "text",
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("❌ Send Fail [%s]: %v", name, err)
			break
		}
		// Small sleep to prevent instant localhost bottleneck (simulate real network)
		time.Sleep(10 * time.Millisecond)
	}

	// Give the fan-out a moment to reach us before hanging up
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}

	log.Printf("✅ %s finished sending %d msgs", name, MsgCount)
}
