package service

import (
	"sync"

	"modcanvas/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventNodeAdded         EventType = "node_added"
	EventNodeMoved         EventType = "node_moved"
	EventConnectionCreated EventType = "connection_created"
	EventGestureEnded      EventType = "gesture_ended"
	EventCanvasRestored    EventType = "canvas_restored"
	EventCatalogReloaded   EventType = "catalog_reloaded"
	EventSnapshotSaved     EventType = "snapshot_saved"
	EventSnapshotDeleted   EventType = "snapshot_deleted"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// CanvasPayload carries the view-model republished after a mutation
type CanvasPayload struct {
	Canvas *domain.Canvas `json:"canvas"`
	Detail interface{}    `json:"detail,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
