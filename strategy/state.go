package strategy

import (
	"context"
	"sync"
)

// Redirect records a form-post navigation issued during execution. The
// in-page flow is superseded by the navigation; callers assert on this
// instead of waiting on a result that never arrives.
type Redirect struct {
	URL string `json:"url"`
}

// State is a snapshot of checkout state held by the store
type State struct {
	Order          *Order                    `json:"order,omitempty"`
	PaymentStatus  PaymentStatus             `json:"paymentStatus,omitempty"`
	PaymentMethods map[string]*PaymentMethod `json:"paymentMethods,omitempty"`
	Config         *StoreConfig              `json:"config,omitempty"`
	Cart           *Cart                     `json:"cart,omitempty"`
	Redirect       *Redirect                 `json:"redirect,omitempty"`

	// WidgetInteracting is set while a widget-interaction action runs so
	// the UI can show a busy indicator.
	WidgetInteracting bool `json:"widgetInteracting,omitempty"`
}

// PaymentMethod returns the loaded method with the given ID, or nil
func (s *State) PaymentMethod(methodID string) *PaymentMethod {
	if s == nil || s.PaymentMethods == nil {
		return nil
	}
	return s.PaymentMethods[methodID]
}

// Action mutates checkout state when dispatched through a Store
type Action interface {
	// Type names the action for logging.
	Type() string

	// Apply performs the action's effect against the given state.
	Apply(ctx context.Context, s *State) error
}

// Store is the checkout state container the strategies dispatch against.
// Dispatch runs the action and returns the resulting state snapshot.
type Store interface {
	Dispatch(ctx context.Context, action Action) (*State, error)
	State() *State
}

// CheckoutStore is the default in-memory Store implementation
type CheckoutStore struct {
	mu    sync.Mutex
	state State
}

// NewCheckoutStore creates a store seeded with the given initial state
func NewCheckoutStore(initial State) *CheckoutStore {
	if initial.PaymentMethods == nil {
		initial.PaymentMethods = make(map[string]*PaymentMethod)
	}
	return &CheckoutStore{state: initial}
}

// Dispatch applies the action under the store lock and returns a snapshot
// of the resulting state. A failed action leaves any partial mutation it
// made visible; callers decide whether to retry or surface the error.
func (s *CheckoutStore) Dispatch(ctx context.Context, action Action) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := action.Apply(ctx, &s.state); err != nil {
		return s.snapshotLocked(), err
	}

	return s.snapshotLocked(), nil
}

// State returns a snapshot of the current checkout state
func (s *CheckoutStore) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CheckoutStore) snapshotLocked() *State {
	snapshot := s.state

	snapshot.PaymentMethods = make(map[string]*PaymentMethod, len(s.state.PaymentMethods))
	for id, method := range s.state.PaymentMethods {
		snapshot.PaymentMethods[id] = method
	}

	return &snapshot
}
