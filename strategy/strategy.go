package strategy

import "context"

// StrategyStatus reflects where a strategy instance is in its lifecycle
type StrategyStatus string

const (
	StrategyUninitialized StrategyStatus = "uninitialized"
	StrategyInitialized   StrategyStatus = "initialized"
	StrategyExecuting     StrategyStatus = "executing"
	StrategyRedirected    StrategyStatus = "redirected"
	StrategySubmitted     StrategyStatus = "submitted"
	StrategyDeinitialized StrategyStatus = "deinitialized"
)

// InitializeOptions configures a strategy before checkout submission
type InitializeOptions struct {
	// MethodID selects the payment method the strategy serves.
	MethodID string

	// GatewayID optionally narrows the method to a specific gateway.
	GatewayID string

	// ContainerID names the DOM container a vendor sign-in button is
	// rendered into, for wallet strategies that need one.
	ContainerID string

	// SignInCustomer starts the vendor's sign-in/consent flow when the
	// buyer has no established wallet session yet.
	SignInCustomer func(ctx context.Context) error
}

// ExecuteOptions carries per-execution metadata
type ExecuteOptions struct {
	Request *RequestOptions
}

// FinalizeOptions carries per-finalization metadata
type FinalizeOptions struct {
	Request *RequestOptions
}

// DeinitializeOptions carries per-teardown metadata
type DeinitializeOptions struct {
	Request *RequestOptions
}

// PaymentStrategy is the uniform lifecycle contract every payment method
// implementation exposes to the checkout orchestrator. All four methods are
// always present, even when a phase is a no-op for a given vendor.
type PaymentStrategy interface {
	// Initialize prepares the strategy for the given method, loading vendor
	// SDKs and binding any required UI hooks.
	Initialize(ctx context.Context, options *InitializeOptions) (*State, error)

	// Execute submits the order and payment, coordinating any step-up
	// authentication or redirect the vendor requires.
	Execute(ctx context.Context, payload OrderRequest, options *ExecuteOptions) (*State, error)

	// Finalize completes an order left pending by a redirect flow. When
	// nothing is pending it fails with ErrOrderFinalizationNotRequired.
	Finalize(ctx context.Context, options *FinalizeOptions) (*State, error)

	// Deinitialize releases UI bindings and strategy-held resources.
	Deinitialize(ctx context.Context, options *DeinitializeOptions) (*State, error)
}

// StrategyFactory creates a new PaymentStrategy instance
type StrategyFactory func(deps *Dependencies) PaymentStrategy

// Dependencies bundles the collaborators a strategy factory wires into new
// instances
type Dependencies struct {
	Store      Store
	Orders     *OrderActionCreator
	Payments   *PaymentActionCreator
	Methods    *PaymentMethodActionCreator
	Strategies *PaymentStrategyActionCreator
	Document   Document
	FormPoster FormPoster

	// Vendor holds vendor SDK loaders keyed by method ID. Each strategy
	// package asserts its own loader type at construction.
	Vendor map[string]any
}
