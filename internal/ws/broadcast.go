package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// trySend queues msg unless the client is closed or its buffer is full.
// The flag keeps a broadcast racing with RemoveClient off a closed channel.
func (c *client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Broadcaster fans achievement updates out to connected dashboard clients.
// Matches arrive every few minutes at most, so there is no batching; every
// update goes out as its own message.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
	tracker *achievement.Tracker
}

func NewBroadcaster(tracker *achievement.Tracker) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]bool),
		tracker: tracker,
	}
}

// AddClient registers conn and sends it the current catalog so the
// dashboard can render without a REST round trip.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	snapshot := WSMessage{
		Type: MsgCatalog,
		Payload: CatalogPayload{
			Entries: b.tracker.Catalog(),
		},
	}
	data, _ := json.Marshal(snapshot)
	c.trySend(data) // client too slow: drop the snapshot

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// BroadcastResult sends one message per updated entry: a progress message
// while the counter is still climbing, an unlocked message on completion.
// Wired to the tracker via OnResult.
func (b *Broadcaster) BroadcastResult(res achievement.Result) {
	for i, entry := range res.Updated {
		text := ""
		if i < len(res.Notifications) {
			text = res.Notifications[i]
		}

		var msg WSMessage
		if entry.Progress.Status == achievement.StatusCompleted {
			msg = WSMessage{
				Type: MsgUnlocked,
				Payload: UnlockedPayload{
					ID:         entry.Rule.ID,
					Title:      entry.Rule.Title,
					Points:     entry.Rule.Points,
					Difficulty: entry.Rule.Difficulty,
					Text:       text,
				},
			}
		} else {
			msg = WSMessage{
				Type: MsgProgress,
				Payload: ProgressPayload{
					Entry: entry,
					Text:  text,
				},
			}
		}
		b.broadcast(msg)
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(data) {
			// Client can't keep up (or already closed), disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
