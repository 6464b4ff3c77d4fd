package kitchen

import (
	"log/slog"
	"sync"
)

// RoomKitchen is the room the kitchen displays join.
const RoomKitchen = "kitchen"

// Event types pushed to displays.
const (
	EventNewOrder     = "new-order"
	EventStatusUpdate = "order-status-update"
	EventPaymentAlert = "payment-alert"
)

// Event is the envelope pushed to every subscriber of a room.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Broadcaster is what the order lifecycle service depends on, so tests can
// swap in a recorder.
type Broadcaster interface {
	Broadcast(room string, event Event)
}

// Hub fans events out to room subscribers. Delivery is fire-and-forget: no
// persistence, no replay — a display that connects after an event was
// published never sees it. Per subscriber, events arrive in publish order
// (each subscription is a single FIFO channel drained by one writer).
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscription]bool
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscription]bool),
		log:   log,
	}
}

// Subscription is one connected display's event feed.
type Subscription struct {
	room string
	ch   chan Event
}

// Events returns the receive side of the subscription.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Subscribe joins a room. buffer bounds how far a slow consumer may lag
// before it is dropped.
func (h *Hub) Subscribe(room string, buffer int) *Subscription {
	sub := &Subscription{room: room, ch: make(chan Event, buffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscription]bool)
	}
	h.rooms[room][sub] = true
	return sub
}

// Unsubscribe leaves the room and closes the event channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	subs, ok := h.rooms[sub.room]
	if !ok || !subs[sub] {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.rooms, sub.room)
	}
}

// Broadcast publishes to all current subscribers of the room. A subscriber
// whose buffer is full is dropped rather than blocking the publisher.
func (h *Hub) Broadcast(room string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dropped []*Subscription
	for sub := range h.rooms[room] {
		select {
		case sub.ch <- event:
		default:
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		h.log.Warn("dropping slow kitchen subscriber", "room", room)
		h.removeLocked(sub)
	}
}

var _ Broadcaster = (*Hub)(nil)
