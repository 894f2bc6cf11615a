package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStrategy struct {
	initializeCalls   int
	executeCalls      int
	finalizeCalls     int
	deinitializeCalls int
	executeErr        error
}

func (s *recordingStrategy) Initialize(ctx context.Context, options *InitializeOptions) (*State, error) {
	s.initializeCalls++
	return &State{}, nil
}

func (s *recordingStrategy) Execute(ctx context.Context, payload OrderRequest, options *ExecuteOptions) (*State, error) {
	s.executeCalls++
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	return &State{}, nil
}

func (s *recordingStrategy) Finalize(ctx context.Context, options *FinalizeOptions) (*State, error) {
	s.finalizeCalls++
	return nil, ErrOrderFinalizationNotRequired
}

func (s *recordingStrategy) Deinitialize(ctx context.Context, options *DeinitializeOptions) (*State, error) {
	s.deinitializeCalls++
	return &State{}, nil
}

type lifecycleRecord struct {
	methodID  string
	operation string
	failed    bool
}

type recordingLifecycleLogger struct {
	records []lifecycleRecord
	logErr  error
}

func (l *recordingLifecycleLogger) LogLifecycle(ctx context.Context, methodID, operation string, processingMs int64, callErr error) error {
	l.records = append(l.records, lifecycleRecord{
		methodID:  methodID,
		operation: operation,
		failed:    callErr != nil,
	})
	return l.logErr
}

func newTestService(lifecycleLogger LifecycleLogger) (*CheckoutService, *recordingStrategy) {
	created := &recordingStrategy{}
	registry := NewStrategyRegistry()
	registry.Register("stub", func(deps *Dependencies) PaymentStrategy {
		return created
	})

	deps := &Dependencies{Store: NewCheckoutStore(State{})}

	return NewCheckoutService(registry, deps, lifecycleLogger), created
}

func TestCheckoutService_InitializeCachesStrategy(t *testing.T) {
	service, strategy := newTestService(nil)
	ctx := context.Background()

	_, err := service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)
	_, err = service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)

	// Same instance handles both calls rather than a fresh one per request.
	assert.Equal(t, 2, strategy.initializeCalls)
	assert.Same(t, PaymentStrategy(strategy), service.cache.Get("stub"))
}

func TestCheckoutService_InitializeValidatesOptions(t *testing.T) {
	service, _ := newTestService(nil)

	_, err := service.Initialize(context.Background(), nil)
	assert.IsType(t, &InvalidArgumentError{}, err)

	_, err = service.Initialize(context.Background(), &InitializeOptions{})
	assert.IsType(t, &MissingDataError{}, err)
}

func TestCheckoutService_InitializeUnknownMethod(t *testing.T) {
	service, _ := newTestService(nil)

	_, err := service.Initialize(context.Background(), &InitializeOptions{MethodID: "nope"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCheckoutService_ExecuteRequiresInitialize(t *testing.T) {
	service, strategy := newTestService(nil)

	_, err := service.Execute(context.Background(), "stub", OrderRequest{}, nil)

	assert.IsType(t, &NotInitializedError{}, err)
	assert.Zero(t, strategy.executeCalls)
}

func TestCheckoutService_ExecuteUsesCachedStrategy(t *testing.T) {
	service, strategy := newTestService(nil)
	ctx := context.Background()

	_, err := service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)

	_, err = service.Execute(ctx, "stub", OrderRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strategy.executeCalls)
}

func TestCheckoutService_FinalizeRequiresInitialize(t *testing.T) {
	service, _ := newTestService(nil)

	_, err := service.Finalize(context.Background(), "stub", nil)

	assert.IsType(t, &NotInitializedError{}, err)
}

func TestCheckoutService_FinalizePropagatesSentinel(t *testing.T) {
	service, _ := newTestService(nil)
	ctx := context.Background()

	_, err := service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)

	_, err = service.Finalize(ctx, "stub", nil)
	assert.ErrorIs(t, err, ErrOrderFinalizationNotRequired)
}

func TestCheckoutService_DeinitializeDropsCachedStrategy(t *testing.T) {
	service, strategy := newTestService(nil)
	ctx := context.Background()

	_, err := service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)

	_, err = service.Deinitialize(ctx, "stub", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strategy.deinitializeCalls)
	assert.Nil(t, service.cache.Get("stub"))

	// Execute after teardown requires a fresh Initialize.
	_, err = service.Execute(ctx, "stub", OrderRequest{}, nil)
	assert.IsType(t, &NotInitializedError{}, err)
}

func TestCheckoutService_DeinitializeWithoutInstanceIsNoop(t *testing.T) {
	service, strategy := newTestService(nil)

	state, err := service.Deinitialize(context.Background(), "stub", nil)

	require.NoError(t, err)
	assert.NotNil(t, state)
	assert.Zero(t, strategy.deinitializeCalls)
}

func TestCheckoutService_LogsLifecycleCalls(t *testing.T) {
	lifecycleLogger := &recordingLifecycleLogger{}
	service, strategy := newTestService(lifecycleLogger)
	strategy.executeErr = errors.New("card declined")
	ctx := context.Background()

	_, err := service.Initialize(ctx, &InitializeOptions{MethodID: "stub"})
	require.NoError(t, err)
	_, err = service.Execute(ctx, "stub", OrderRequest{}, nil)
	require.Error(t, err)

	require.Len(t, lifecycleLogger.records, 2)
	assert.Equal(t, lifecycleRecord{methodID: "stub", operation: "initialize"}, lifecycleLogger.records[0])
	assert.Equal(t, lifecycleRecord{methodID: "stub", operation: "execute", failed: true}, lifecycleLogger.records[1])
}

func TestCheckoutService_LoggerFailureDoesNotBreakCall(t *testing.T) {
	lifecycleLogger := &recordingLifecycleLogger{logErr: errors.New("index unavailable")}
	service, _ := newTestService(lifecycleLogger)

	state, err := service.Initialize(context.Background(), &InitializeOptions{MethodID: "stub"})

	require.NoError(t, err)
	assert.NotNil(t, state)
}
