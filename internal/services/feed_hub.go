package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Change feed operations
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// FeedMessage is the envelope for everything sent over a feed channel.
// Seq is a hub-global monotonic sequence number: clients apply changes
// in seq order and can drop anything older than what they already hold.
type FeedMessage struct {
	Type    string      `json:"type"`
	Seq     uint64      `json:"seq,omitempty"`
	Table   string      `json:"table,omitempty"`
	Op      string      `json:"op,omitempty"`
	Row     interface{} `json:"row,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Subscription scopes a feed channel to a table and an optional
// column = value row filter
type Subscription struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Matches reports whether a change with the given row scope is covered
// by the subscription
func (s Subscription) Matches(table string, scope map[string]string) bool {
	if s.Table != table {
		return false
	}
	if s.Column == "" {
		return true
	}
	return scope[s.Column] == s.Value
}

// feedConn is the connection surface the hub needs
type feedConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type feedClient struct {
	writeMu sync.Mutex
	conn    feedConn
	subs    map[string]Subscription // keyed by table, one sub per table
}

// write serializes frames onto the connection; gorilla/websocket allows
// at most one concurrent writer per connection.
func (c *feedClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// close counts as a write for the single-writer contract
func (c *feedClient) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.Close()
}

// FeedHub manages feed channels. Each user holds at most one channel;
// registering a second connection closes the first.
type FeedHub struct {
	mu      sync.RWMutex
	seq     uint64
	clients map[string]*feedClient
}

// NewFeedHub creates a new feed hub
func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[string]*feedClient)}
}

// Register registers a feed channel for a user
func (h *FeedHub) Register(userID string, conn feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[userID]; ok {
		existing.close()
	}
	h.clients[userID] = &feedClient{
		conn: conn,
		subs: make(map[string]Subscription),
	}

	log.Info().Str("user_id", userID).Msg("Feed channel registered")
}

// Unregister closes and removes a user's feed channel
func (h *FeedHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[userID]; ok {
		client.close()
		delete(h.clients, userID)
		log.Info().Str("user_id", userID).Msg("Feed channel unregistered")
	}
}

// Subscribe scopes the user's channel to a table. A second subscribe on
// the same table replaces the previous filter.
func (h *FeedHub) Subscribe(userID string, sub Subscription) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[userID]
	if !ok {
		return fmt.Errorf("user %s has no feed channel", userID)
	}
	client.subs[sub.Table] = sub
	return nil
}

// Unsubscribe drops the user's subscription on a table
func (h *FeedHub) Unsubscribe(userID, table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[userID]; ok {
		delete(client.subs, table)
	}
}

// IsOnline checks if a user has a feed channel
func (h *FeedHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser sends a message to a specific user's channel
func (h *FeedHub) SendToUser(userID string, msg FeedMessage) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Publish stamps a change with the next sequence number and delivers it
// to every subscriber whose filter matches the row scope. Connections
// that fail to take the write are dropped.
func (h *FeedHub) Publish(table, op string, scope map[string]string, row interface{}) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	msg := FeedMessage{
		Type:  "change",
		Seq:   h.seq,
		Table: table,
		Op:    op,
		Row:   row,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("Failed to marshal change event")
		return h.seq
	}

	for userID, client := range h.clients {
		matched := false
		for _, sub := range client.subs {
			if sub.Matches(table, scope) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if err := client.write(data); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to deliver change event")
			client.close()
			delete(h.clients, userID)
		}
	}
	return h.seq
}

// Close shuts down all feed channels
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, client := range h.clients {
		client.close()
		delete(h.clients, userID)
	}
}
