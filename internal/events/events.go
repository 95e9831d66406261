package events

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

const (
	TopicUsers  = "user_events"
	TopicCarts  = "cart_events"
	TopicOrders = "order_events"
)

const (
	UserLoggedIn   = "user_logged_in"
	UserRegistered = "user_registered"
	UserLoggedOut  = "user_logged_out"
	CartCleared    = "cart_cleared"
	OrderCreated   = "order_created"
	OrderPaid      = "order_paid"
	OrderCancelled = "order_cancelled"
)

type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Emit publishes and only logs failures. A lost event never fails the caller.
func Emit(ctx context.Context, p Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	ev := Event{Type: typ, At: time.Now().UTC(), Data: data}
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			"topic", topic, "type", typ, "key", key, "error", err)
	}
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, Event) error { return nil }
func (NopPublisher) Close() error                                              { return nil }

type Recorded struct {
	Topic string
	Key   string
	Event Event
}

// RecordingPublisher keeps every event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Recorded
	Err    error
}

func (r *RecordingPublisher) PublishEvent(_ context.Context, topic, key string, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Recorded{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

func (r *RecordingPublisher) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

func (r *RecordingPublisher) Types() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Event.Type)
	}
	return out
}
