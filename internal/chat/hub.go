// Package chat provides the in-process fan-out hub behind the live message
// feed. Persistence stays in the message repository; the hub only pushes
// already-stored messages to attached subscribers, per relationship.
package chat

import (
	"sync"

	"fitvibe/coach-app/internal/domain"
)

// subscriptionBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind is detached rather than allowed to block the room.
const subscriptionBuffer = 64

// Hub tracks live subscriptions per relationship and broadcasts stored
// messages to them in arrival order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscription]struct{})}
}

// Subscription is a live feed handle for one relationship. Messages arrive
// on C in broadcast order. Callers must Close the handle on every exit path;
// Close is idempotent.
type Subscription struct {
	hub            *Hub
	relationshipID string
	C              chan domain.Message
	closeOnce      sync.Once
}

// Subscribe attaches a new subscriber to a relationship's room.
func (h *Hub) Subscribe(relationshipID string) *Subscription {
	sub := &Subscription{
		hub:            h,
		relationshipID: relationshipID,
		C:              make(chan domain.Message, subscriptionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[relationshipID] == nil {
		h.rooms[relationshipID] = make(map[*Subscription]struct{})
	}
	h.rooms[relationshipID][sub] = struct{}{}
	return sub
}

// Close detaches the subscription from its room and closes C.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.detach(s)
		close(s.C)
	})
}

func (h *Hub) detach(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[s.relationshipID]; room != nil {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, s.relationshipID)
		}
	}
}

// Broadcast pushes a stored message to every live subscriber of the
// relationship. A subscriber whose buffer is full is detached; a transient
// subscriber re-delivers the full ordered set on reconnect anyway, so
// dropping it loses nothing durable.
//
// The read lock is held across the sends. Close detaches under the write
// lock before closing C, so a subscription still in the room here cannot
// have its channel closed out from under the send. The detach goroutine for
// a slow subscriber blocks on the write lock until the fan-out finishes.
func (h *Hub) Broadcast(relationshipID string, msg domain.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[relationshipID] {
		select {
		case sub.C <- msg:
		default:
			go sub.Close()
		}
	}
}

// Subscribers reports the current subscriber count for a relationship.
func (h *Hub) Subscribers(relationshipID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[relationshipID])
}
