package pubsub

import (
	"encoding/json"
	"sync"

	"github.com/warroom-labs/draftboard/internal/logger"
)

// MockNATSPubSub is an in-memory stand-in for the NATS upstream, used when
// the server runs fully offline. It keeps a bounded message log so the
// JetStream replay behavior can be simulated.
type MockNATSPubSub struct {
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
	messages    []Event
	maxMessages int
}

// NewMockNATSPubSub creates the offline upstream. The natsURL argument is
// accepted and ignored so it can slot into the same construction switch as
// the real client.
func NewMockNATSPubSub(natsURL, subject string) (*MockNATSPubSub, error) {
	logger.Info("Using mock NATS pub/sub (offline mode)", "subject", subject)

	return &MockNATSPubSub{
		subject:     subject,
		subscribers: make([]chan Event, 0),
		messages:    make([]Event, 0),
		maxMessages: 1000,
	}, nil
}

// Publish stores the event and delivers it to subscribers.
func (p *MockNATSPubSub) Publish(event Event) {
	p.mu.Lock()
	p.messages = append(p.messages, event)

	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}

	subs := make([]chan Event, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn("mock NATS: skipping slow subscriber", "type", event.Type)
		}
	}

	data, _ := json.Marshal(event)
	logger.Debug("mock NATS: published", "type", event.Type, "data", string(data))
}

// Subscribe returns a buffered channel of events.
func (p *MockNATSPubSub) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	subCount := len(p.subscribers)
	p.mu.Unlock()

	logger.Debug("mock NATS: subscriber added", "total", subCount)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (p *MockNATSPubSub) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			logger.Debug("mock NATS: subscriber removed", "remaining", len(p.subscribers))
			break
		}
	}
}

// SubscribeJetStream simulates a durable consumer. In the mock it is an
// ordinary subscription drained by a goroutine.
func (p *MockNATSPubSub) SubscribeJetStream(consumerName string, handler func(Event)) error {
	logger.Debug("mock NATS: creating durable subscription", "consumer", consumerName)

	ch := p.Subscribe()

	go func() {
		for event := range ch {
			handler(event)
		}
		logger.Debug("mock NATS: durable subscription closed", "consumer", consumerName)
	}()

	return nil
}

// ReplayMessages sends the last count stored events to the channel,
// simulating JetStream replay for late subscribers.
func (p *MockNATSPubSub) ReplayMessages(ch chan Event, count int) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := len(p.messages) - count
	if start < 0 {
		start = 0
	}

	for _, event := range p.messages[start:] {
		select {
		case ch <- event:
		default:
			logger.Warn("mock NATS: channel full during replay, skipping event")
		}
	}
}

// GetMessageCount returns the number of stored messages.
func (p *MockNATSPubSub) GetMessageCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.messages)
}

// GetSubscriberCount returns the number of active subscribers.
func (p *MockNATSPubSub) GetSubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Close closes all subscriber channels.
func (p *MockNATSPubSub) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil
}
