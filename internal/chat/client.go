package chat

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Configuration constants (Good practice to avoid magic numbers)
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 4096                // Maximum event size allowed from peer.

	sendBufferSize = 256
)

// Client is a middleman between the websocket connection and the hub.
// It is also the connection handle the session registry keys on.
type Client struct {
	hub *Hub
	// The raw websocket connection
	conn *websocket.Conn
	// Buffered channel of outbound payloads. Only the hub's run loop
	// closes it, on unregister.
	send chan []byte
	addr string
}

// readPump pumps decoded events from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		// Cleanup: If connection dies, tell Hub to unregister
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// Heartbeat logic (Keep-Alive)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("read error from %s: %v", c.addr, err)
			}
			break
		}

		var event InboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			// No request/response correlation on this channel, so the
			// sender gets no error event: log and drop.
			log.Printf("dropping malformed event from %s: %v", c.addr, err)
			continue
		}

		// PIPELINE: Browser -> ReadPump -> Hub.inbound
		c.hub.inbound <- inboundFrame{client: c, event: event}
	}
}

// writePump pumps payloads from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			// Set a write deadline so we don't hang forever
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(payload)

			// Optimization: If there are queued payloads, write them all in
			// one go. This reduces system calls (syscalls are expensive).
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// Heartbeat: ping the peer to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
