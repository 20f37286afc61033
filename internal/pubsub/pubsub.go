package pubsub

import (
	"sync"

	"github.com/warroom-labs/draftboard/internal/logger"
)

// Event is a single draft-room event. Payload keys are lowerCamel to match
// the JSON emitted by the HTTP layer.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Upstream is a cross-instance publisher (NATS in production, embedded NATS
// in development). Events published upstream are broadcast back to every
// instance, including the one that published.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub fans events out to in-process subscribers (SSE connections, MCP
// sessions). With an upstream configured it becomes a bridge: publishes go
// up, broadcasts come back down.
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// New creates a local-only PubSub with no upstream.
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a PubSub bridged to an upstream publisher. Local
// Publish calls are forwarded upstream; events arriving from upstream are
// delivered to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		logger.Debug("pubsub: subscribed to upstream")
		for event := range ch {
			ps.publishLocal(event)
		}
		logger.Debug("pubsub: upstream channel closed")
	}()

	return ps
}

// Subscribe registers a new subscriber and returns its delivery channel.
// The channel is buffered; slow consumers drop events rather than block
// publishers.
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("pubsub: subscriber added", "total", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Channels that
// were never subscribed are left untouched.
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event. With an upstream configured the event goes
// upstream only; it reaches local subscribers when the upstream broadcasts
// it back, so every instance sees the same ordering.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

// publishLocal delivers to in-process subscribers only.
func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Subscriber is full; drop rather than block the draft flow.
		}
	}
}
