// Package propagate implements the in-process bulletin board through
// which independently loaded modules observe each other's changes. One
// module publishes under a topic; another picks the payload up on its
// next refresh. Pull, not push: there is no dispatch goroutine, and a
// publish becomes visible only when a subscriber next asks.
//
// Within one topic, last write wins per refresh cycle, and a payload is
// consumed by the subscriber that reads it. The board is not a durable
// log; consumers that need durability persist through the record store
// instead.
package propagate

import (
	"encoding/json"
	"sync"
)

// Board is a per-session bulletin board. The zero value is not usable;
// construct with NewBoard.
type Board struct {
	mu     sync.Mutex
	topics map[string]any
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{topics: make(map[string]any)}
}

// Publish records payload as the latest value for topic, replacing any
// unread previous value.
func (b *Board) Publish(topic string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics[topic] = payload
}

// Subscribe returns the latest unread payload for topic and consumes
// it. A second call without an intervening publish reports no update.
func (b *Board) Subscribe(topic string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	payload, ok := b.topics[topic]
	if !ok {
		return nil, false
	}
	delete(b.topics, topic)
	return payload, true
}

// SubscribeInto consumes the latest unread payload for topic and
// decodes it into v through a JSON round-trip. A payload that does not
// fit v is treated as no update: modules agree on payload shapes
// out-of-band, and the board does not enforce them.
func (b *Board) SubscribeInto(topic string, v any) bool {
	payload, ok := b.Subscribe(topic)
	if !ok {
		return false
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
