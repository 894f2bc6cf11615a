// Package cardinal implements the CyberSource / Cardinal Commerce 3-D
// Secure payment strategy: vendor SDK setup, the authentication event
// bridge, and the step-up challenge coordination around order submission.
package cardinal

import "context"

// InitializationType selects the Songbird setup mode
type InitializationType string

const (
	InitializationInit InitializationType = "init"
)

// PaymentBrand identifies the Cardinal payment brand used for Continue
type PaymentBrand string

const (
	BrandCCA PaymentBrand = "cca"
)

// TriggerEvent names a Cardinal trigger operation
type TriggerEvent string

const (
	TriggerBinProcess TriggerEvent = "bin.process"
)

// ValidatedAction is the action code delivered with a Validated event
type ValidatedAction string

const (
	ActionSuccess  ValidatedAction = "SUCCESS"
	ActionNoAction ValidatedAction = "NOACTION"
	ActionFailure  ValidatedAction = "FAILURE"
	ActionError    ValidatedAction = "ERROR"
)

// signatureValidationErrors are the Songbird error numbers reported when
// the setup JWT fails signature verification. Any of them poisons the
// processor rather than the outstanding challenge.
var signatureValidationErrors = []int{1000, 1010, 1011, 1020, 1050}

func isSignatureValidationError(errorNumber int) bool {
	for _, number := range signatureValidationErrors {
		if number == errorNumber {
			return true
		}
	}
	return false
}

// SetupCompletedData accompanies the vendor's setup-completed callback
type SetupCompletedData struct {
	SessionID string
}

// ValidatedData is the diagnostic payload of a Validated event
type ValidatedData struct {
	ActionCode       ValidatedAction
	ErrorNumber      int
	ErrorDescription string
	Validated        bool
}

// BinCheckResult is the outcome of the bin/range pre-check. A false or
// absent status means the processor cannot handle this card.
type BinCheckResult struct {
	Status bool
}

// Config holds vendor SDK configuration
type Config struct {
	LoggingLevel string
}

// SetupOptions carries the parameters for vendor setup
type SetupOptions struct {
	JWT string
}

// ContinueRequest carries the challenge parameters handed to Continue
type ContinueRequest struct {
	AcsURL  string
	Payload string
}

// PartialOrder identifies the transaction a challenge continues
type PartialOrder struct {
	TransactionID string
}

// SDK is the Cardinal Songbird handle the processor drives. Registration
// callbacks fire on the vendor's schedule, not ours; the processor bridges
// them onto its event bridge.
type SDK interface {
	// Configure applies vendor configuration before setup.
	Configure(config Config)

	// OnSetupCompleted registers the handler for the one-time setup event.
	OnSetupCompleted(handler func(data SetupCompletedData))

	// OnValidated registers the handler for authentication outcomes. The
	// jwt argument carries the authentication token on success paths.
	OnValidated(handler func(data ValidatedData, jwt string))

	// Setup starts vendor initialization; completion arrives via the
	// OnSetupCompleted or OnValidated callbacks.
	Setup(ctx context.Context, initializationType InitializationType, options SetupOptions) error

	// Trigger runs a synchronous vendor check such as the bin pre-check.
	Trigger(ctx context.Context, event TriggerEvent, value string) (*BinCheckResult, error)

	// Continue hands control to the vendor's challenge UI; the outcome
	// arrives via the OnValidated callback.
	Continue(ctx context.Context, brand PaymentBrand, request ContinueRequest, order PartialOrder) error
}

// SDKLoader retrieves the vendor SDK for the configured environment.
// Script/CDN retrieval is owned by the implementation; the processor only
// consumes the returned handle.
type SDKLoader interface {
	Load(ctx context.Context, testMode bool) (SDK, error)
}

// SDKLoaderFunc adapts a function to the SDKLoader interface
type SDKLoaderFunc func(ctx context.Context, testMode bool) (SDK, error)

// Load calls f
func (f SDKLoaderFunc) Load(ctx context.Context, testMode bool) (SDK, error) {
	return f(ctx, testMode)
}
