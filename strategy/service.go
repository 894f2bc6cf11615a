package strategy

import (
	"context"
	"time"

	"github.com/ecompay/checkout/infra/logger"
)

// LifecycleLogger receives a record of every strategy lifecycle call
type LifecycleLogger interface {
	LogLifecycle(ctx context.Context, methodID, operation string, processingMs int64, callErr error) error
}

// CheckoutService routes lifecycle operations to the strategy registered
// for a method ID, reusing live instances across calls and logging every
// operation.
type CheckoutService struct {
	registry *StrategyRegistry
	cache    *StrategyCache
	deps     *Dependencies
	logger   LifecycleLogger
}

// NewCheckoutService creates a checkout service over the given registry
func NewCheckoutService(registry *StrategyRegistry, deps *Dependencies, lifecycleLogger LifecycleLogger) *CheckoutService {
	return &CheckoutService{
		registry: registry,
		cache:    NewStrategyCache(32, 0),
		deps:     deps,
		logger:   lifecycleLogger,
	}
}

// Initialize initializes the strategy for the given options
func (s *CheckoutService) Initialize(ctx context.Context, options *InitializeOptions) (*State, error) {
	if err := ValidateInitializeOptions(options); err != nil {
		return nil, err
	}

	strategy, err := s.strategyFor(options.MethodID)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, options.MethodID, "initialize", func(ctx context.Context) (*State, error) {
		return strategy.Initialize(ctx, options)
	})
}

// Execute submits the order through the strategy for the method ID
func (s *CheckoutService) Execute(ctx context.Context, methodID string, payload OrderRequest, options *ExecuteOptions) (*State, error) {
	strategy := s.cache.Get(methodID)
	if strategy == nil {
		return nil, NewNotInitializedError("strategy for method '" + methodID + "' has not been initialized")
	}

	return s.run(ctx, methodID, "execute", func(ctx context.Context) (*State, error) {
		return strategy.Execute(ctx, payload, options)
	})
}

// Finalize finalizes a pending order through the strategy for the method ID
func (s *CheckoutService) Finalize(ctx context.Context, methodID string, options *FinalizeOptions) (*State, error) {
	strategy := s.cache.Get(methodID)
	if strategy == nil {
		return nil, NewNotInitializedError("strategy for method '" + methodID + "' has not been initialized")
	}

	return s.run(ctx, methodID, "finalize", func(ctx context.Context) (*State, error) {
		return strategy.Finalize(ctx, options)
	})
}

// Deinitialize tears down the strategy for the method ID and drops it from
// the instance cache
func (s *CheckoutService) Deinitialize(ctx context.Context, methodID string, options *DeinitializeOptions) (*State, error) {
	strategy := s.cache.Get(methodID)
	if strategy == nil {
		// Nothing live; deinitialize is idempotent by contract.
		return s.deps.Store.State(), nil
	}

	state, err := s.run(ctx, methodID, "deinitialize", func(ctx context.Context) (*State, error) {
		return strategy.Deinitialize(ctx, options)
	})
	if err == nil {
		s.cache.Delete(methodID)
	}

	return state, err
}

func (s *CheckoutService) strategyFor(methodID string) (PaymentStrategy, error) {
	if cached := s.cache.Get(methodID); cached != nil {
		return cached, nil
	}

	strategy, err := s.registry.CreateStrategy(methodID, s.deps)
	if err != nil {
		return nil, err
	}
	s.cache.Set(methodID, strategy)

	return strategy, nil
}

func (s *CheckoutService) run(ctx context.Context, methodID, operation string, fn func(ctx context.Context) (*State, error)) (*State, error) {
	startTime := time.Now()
	state, err := fn(ctx)
	processingMs := time.Since(startTime).Milliseconds()

	if s.logger != nil {
		if logErr := s.logger.LogLifecycle(ctx, methodID, operation, processingMs, err); logErr != nil {
			logger.Warn("Failed to log lifecycle call", logger.LogContext{
				Method: methodID,
				Fields: map[string]any{
					"operation": operation,
					"error":     logErr.Error(),
				},
			})
		}
	}

	return state, err
}
