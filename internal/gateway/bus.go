package gateway

import (
	"sync"
)

// Bus routes events to connected players. Each connection registers its
// player ID once and drains a buffered channel; sends never block the
// engine, a slow consumer just loses events.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
	}
}

// Register creates the outbound channel for a player
func (b *Bus) Register(playerID string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16)
	b.subscribers[playerID] = ch
	return ch
}

// Unregister removes a player's channel and closes it
func (b *Bus) Unregister(playerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[playerID]; ok {
		delete(b.subscribers, playerID)
		close(ch)
	}
}

// Unicast delivers an event to a single player
func (b *Bus) Unicast(playerID string, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.deliver(playerID, e)
}

// Broadcast delivers an event to every listed player
func (b *Bus) Broadcast(playerIDs []string, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, id := range playerIDs {
		b.deliver(id, e)
	}
}

func (b *Bus) deliver(playerID string, e Event) {
	ch, ok := b.subscribers[playerID]
	if !ok {
		return
	}
	select {
	case ch <- e:
	default:
		// Channel full, skip
	}
}
