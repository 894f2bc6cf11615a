package cardinal

import (
	"context"
	"sync"
)

// Phase tags an authentication event with the lifecycle step it concludes
type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseAuthorization Phase = "authorization"
)

// Event is one typed authentication event emitted by the SDK callbacks.
// Status reports the outcome; JWT carries the authentication token on
// successful authorization events and Data the vendor diagnostics on
// failed ones.
type Event struct {
	Phase  Phase
	Status bool
	JWT    string
	Data   *ValidatedData
}

// Bridge converts the vendor's push-style callbacks into one-shot awaited
// events. Events are broadcast to current subscribers only; nothing is
// buffered for late waiters. Concurrent waiters are supported only on
// disjoint phases; one challenge is outstanding at a time.
type Bridge struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewBridge creates an event bridge with no subscribers
func NewBridge() *Bridge {
	return &Bridge{subs: make(map[int]chan Event)}
}

// Emit broadcasts the event to every current subscriber. A subscriber that
// is not draining its channel misses the event rather than blocking the
// vendor callback.
func (b *Bridge) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscription is one registered bridge listener. It must be subscribed
// before the call that makes the vendor emit, since nothing is buffered
// for late subscribers.
type Subscription struct {
	bridge *Bridge
	id     int
	ch     chan Event
}

// Subscribe registers a new listener for subsequently emitted events
func (b *Bridge) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, 4)
	b.subs[id] = ch

	return &Subscription{bridge: b, id: id, ch: ch}
}

// Await blocks until the first event matching the phase arrives. Later
// events of the same phase during the wait are dropped; events of other
// phases are skipped. There is no internal timeout; cancellation comes
// from ctx.
func (s *Subscription) Await(ctx context.Context, phase Phase) (Event, error) {
	for {
		select {
		case event := <-s.ch:
			if event.Phase == phase {
				return event, nil
			}
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

// Close unregisters the subscription
func (s *Subscription) Close() {
	s.bridge.mu.Lock()
	defer s.bridge.mu.Unlock()
	delete(s.bridge.subs, s.id)
}

// AwaitOnce subscribes, waits for the first event matching the phase and
// unsubscribes. Use Subscribe/Await directly when the emitting call must
// happen after subscription.
func (b *Bridge) AwaitOnce(ctx context.Context, phase Phase) (Event, error) {
	sub := b.Subscribe()
	defer sub.Close()
	return sub.Await(ctx, phase)
}
