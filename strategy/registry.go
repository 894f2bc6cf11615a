package strategy

import (
	"fmt"
	"sync"
)

// StrategyRegistry manages all payment strategy factories
type StrategyRegistry struct {
	factories map[string]StrategyFactory
	mu        sync.RWMutex
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		factories: make(map[string]StrategyFactory),
	}
}

// Register adds a strategy factory to the registry under a method ID
func (r *StrategyRegistry) Register(methodID string, factory StrategyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[methodID] = factory
}

// Get retrieves a strategy factory by method ID
func (r *StrategyRegistry) Get(methodID string) (StrategyFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[methodID]
	if !exists {
		return nil, fmt.Errorf("payment strategy '%s' is not registered", methodID)
	}

	return factory, nil
}

// CreateStrategy creates a new strategy instance for a method ID
func (r *StrategyRegistry) CreateStrategy(methodID string, deps *Dependencies) (PaymentStrategy, error) {
	factory, err := r.Get(methodID)
	if err != nil {
		return nil, err
	}

	return factory(deps), nil
}

// GetAvailableStrategies returns a list of all registered method IDs
func (r *StrategyRegistry) GetAvailableStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// DefaultRegistry is the global default strategy registry
var DefaultRegistry = NewStrategyRegistry()

// Register registers a strategy factory with the default registry
func Register(methodID string, factory StrategyFactory) {
	DefaultRegistry.Register(methodID, factory)
}

// Get retrieves a strategy factory from the default registry
func Get(methodID string) (StrategyFactory, error) {
	return DefaultRegistry.Get(methodID)
}

// CreateStrategy creates a strategy instance from the default registry
func CreateStrategy(methodID string, deps *Dependencies) (PaymentStrategy, error) {
	return DefaultRegistry.CreateStrategy(methodID, deps)
}
