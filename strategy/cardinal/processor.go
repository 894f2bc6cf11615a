package cardinal

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecompay/checkout/infra/logger"
	"github.com/ecompay/checkout/strategy"
)

// ProcessorState is the lifecycle state of a ThreeDSecureProcessor
type ProcessorState string

const (
	ProcessorUninitialized         ProcessorState = "uninitialized"
	ProcessorSettingUp             ProcessorState = "setting_up"
	ProcessorReady                 ProcessorState = "ready"
	ProcessorAwaitingAuthorization ProcessorState = "awaiting_authorization"
	ProcessorFailed                ProcessorState = "failed"
)

// allowedTransitions defines the valid processor state transitions.
// ProcessorFailed is terminal: a failed instance must be discarded.
var allowedTransitions = map[ProcessorState][]ProcessorState{
	ProcessorUninitialized:         {ProcessorSettingUp},
	ProcessorSettingUp:             {ProcessorReady, ProcessorFailed},
	ProcessorReady:                 {ProcessorAwaitingAuthorization},
	ProcessorAwaitingAuthorization: {ProcessorReady},
	ProcessorFailed:                {},
}

// stepUpErrorCodes are the submission error codes that signal a backend
// step-up requirement rather than a terminal failure
var stepUpErrorCodes = []string{strategy.ErrCodeEnrolledCard, strategy.ErrCodeThreeDSecureRequired}

// AuthenticationError is a vendor-rejected 3-D Secure challenge
type AuthenticationError struct {
	Description string
}

func (e *AuthenticationError) Error() string {
	if e.Description == "" {
		return "payment authentication was rejected"
	}
	return e.Description
}

// ErrAuthenticationInProgress rejects a second Execute while a challenge
// is outstanding on the same processor
var ErrAuthenticationInProgress = fmt.Errorf("cardinal: an authentication is already in progress")

const failureDescription = "User failed authentication or an error was encountered while processing the transaction"

// ThreeDSecureProcessor owns the vendor SDK handle and the event bridge,
// and runs the conditional step-up authentication around order submission.
type ThreeDSecureProcessor struct {
	store    strategy.Store
	orders   *strategy.OrderActionCreator
	payments *strategy.PaymentActionCreator
	loader   SDKLoader

	mu        sync.Mutex
	sdk       SDK
	method    *strategy.PaymentMethod
	bridge    *Bridge
	state     ProcessorState
	executing bool
}

// NewThreeDSecureProcessor creates an uninitialized processor
func NewThreeDSecureProcessor(store strategy.Store, orders *strategy.OrderActionCreator, payments *strategy.PaymentActionCreator, loader SDKLoader) *ThreeDSecureProcessor {
	return &ThreeDSecureProcessor{
		store:    store,
		orders:   orders,
		payments: payments,
		loader:   loader,
		bridge:   NewBridge(),
		state:    ProcessorUninitialized,
	}
}

// State returns the processor's current lifecycle state
func (p *ThreeDSecureProcessor) State() ProcessorState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *ThreeDSecureProcessor) transition(to ProcessorState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, allowed := range allowedTransitions[p.state] {
		if allowed == to {
			p.state = to
			return nil
		}
	}

	return fmt.Errorf("cardinal: invalid processor transition %s -> %s", p.state, to)
}

// Initialize loads the vendor SDK, registers the authentication handlers
// and runs vendor setup, waiting for the setup outcome on the bridge.
// Idempotent once Ready; a setup failure is terminal for the instance.
func (p *ThreeDSecureProcessor) Initialize(ctx context.Context, method *strategy.PaymentMethod) (*strategy.State, error) {
	p.mu.Lock()
	switch p.state {
	case ProcessorReady, ProcessorAwaitingAuthorization:
		p.mu.Unlock()
		return p.store.State(), nil
	case ProcessorFailed:
		p.mu.Unlock()
		return nil, fmt.Errorf("cardinal: processor setup previously failed; create a new instance")
	}
	p.mu.Unlock()

	if method == nil || method.ClientToken == "" {
		return nil, strategy.NewMissingDataError("payment method client token")
	}

	if p.loader == nil {
		return nil, strategy.NewMissingDataError("vendor SDK loader")
	}

	sdk, err := p.loader.Load(ctx, method.Config.TestMode)
	if err != nil {
		return nil, fmt.Errorf("cardinal: failed to load vendor SDK: %w", err)
	}

	p.mu.Lock()
	p.method = method
	p.sdk = sdk
	p.mu.Unlock()

	sdk.Configure(Config{LoggingLevel: "on"})

	sdk.OnSetupCompleted(func(data SetupCompletedData) {
		p.bridge.Emit(Event{Phase: PhaseSetup, Status: true})
	})

	sdk.OnValidated(func(data ValidatedData, jwt string) {
		p.handleValidated(data, jwt)
	})

	if err := p.transition(ProcessorSettingUp); err != nil {
		return nil, err
	}

	// Subscribe before Setup: the vendor may emit setup completion from
	// inside the call.
	sub := p.bridge.Subscribe()
	defer sub.Close()

	if err := sdk.Setup(ctx, InitializationInit, SetupOptions{JWT: method.ClientToken}); err != nil {
		_ = p.transition(ProcessorFailed)
		return nil, fmt.Errorf("cardinal: vendor setup failed: %w", err)
	}

	event, err := sub.Await(ctx, PhaseSetup)
	if err != nil {
		_ = p.transition(ProcessorFailed)
		return nil, err
	}

	if !event.Status {
		_ = p.transition(ProcessorFailed)
		return nil, strategy.NewMissingDataError("payment method client token")
	}

	if err := p.transition(ProcessorReady); err != nil {
		return nil, err
	}

	return p.store.State(), nil
}

// handleValidated maps the vendor validated event onto bridge events.
// NOACTION with a zero error number is a silent pass; a signature
// validation error fails the setup phase and poisons the processor.
func (p *ThreeDSecureProcessor) handleValidated(data ValidatedData, jwt string) {
	switch data.ActionCode {
	case ActionSuccess:
		p.bridge.Emit(Event{Phase: PhaseAuthorization, Status: true, JWT: jwt})
	case ActionNoAction:
		if data.ErrorNumber > 0 {
			p.bridge.Emit(Event{Phase: PhaseAuthorization, Status: false, Data: &data})
		} else {
			p.bridge.Emit(Event{Phase: PhaseAuthorization, Status: true, JWT: jwt})
		}
	case ActionFailure:
		data.ErrorDescription = failureDescription
		p.bridge.Emit(Event{Phase: PhaseAuthorization, Status: false, Data: &data})
	case ActionError:
		if isSignatureValidationError(data.ErrorNumber) {
			p.bridge.Emit(Event{Phase: PhaseSetup, Status: false, Data: &data})
		} else {
			p.bridge.Emit(Event{Phase: PhaseAuthorization, Status: false, Data: &data})
		}
	default:
		logger.Warn("Ignoring validated event with unknown action code", logger.LogContext{
			Method: p.methodID(),
			Fields: map[string]any{"action_code": string(data.ActionCode)},
		})
	}
}

// Execute submits the order and payment, running the bin pre-check first
// and the step-up challenge when the backend demands one. Only one Execute
// may be in flight per processor.
func (p *ThreeDSecureProcessor) Execute(ctx context.Context, payment strategy.PaymentRequestBody, order strategy.OrderRequest, card *strategy.CreditCardInstrument, options *strategy.RequestOptions) (*strategy.State, error) {
	p.mu.Lock()
	if p.state != ProcessorReady || p.sdk == nil {
		p.mu.Unlock()
		return nil, strategy.NewNotInitializedError("three-d-secure processor is not initialized")
	}
	if p.executing {
		p.mu.Unlock()
		return nil, ErrAuthenticationInProgress
	}
	p.executing = true
	sdk := p.sdk
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.executing = false
		p.mu.Unlock()
	}()

	if err := strategy.ValidateCardInstrument(card); err != nil {
		return nil, err
	}

	result, err := sdk.Trigger(ctx, TriggerBinProcess, card.CCNumber)
	if err != nil || result == nil || !result.Status {
		return nil, strategy.NewNotInitializedError("card range is not eligible for this processor")
	}

	if _, err := p.store.Dispatch(ctx, p.orders.SubmitOrder(order.WithoutPayment(), options)); err != nil {
		return nil, err
	}

	payment.PaymentData = card

	state, err := p.store.Dispatch(ctx, p.payments.SubmitPayment(payment))
	if err == nil {
		return state, nil
	}

	if !p.requiresStepUp(err) {
		return nil, err
	}

	return p.completeChallenge(ctx, sdk, payment, card, err)
}

func (p *ThreeDSecureProcessor) requiresStepUp(err error) bool {
	if strategy.ThreeDSResultOf(err) == nil {
		return false
	}
	for _, code := range stepUpErrorCodes {
		if strategy.HasErrorCode(err, code) {
			return true
		}
	}
	return false
}

// completeChallenge hands control to the vendor challenge UI, waits for
// the authorization outcome, and resubmits the payment with the returned
// token attached
func (p *ThreeDSecureProcessor) completeChallenge(ctx context.Context, sdk SDK, payment strategy.PaymentRequestBody, card *strategy.CreditCardInstrument, submissionErr error) (*strategy.State, error) {
	threeDS := strategy.ThreeDSResultOf(submissionErr)

	if err := p.transition(ProcessorAwaitingAuthorization); err != nil {
		return nil, err
	}
	defer func() {
		// The challenge always returns the processor to Ready; a rejected
		// challenge fails the call, not the instance.
		_ = p.transition(ProcessorReady)
	}()

	// Subscribe before Continue: the vendor may emit the outcome from
	// inside the call.
	sub := p.bridge.Subscribe()
	defer sub.Close()

	continueErr := sdk.Continue(ctx, BrandCCA,
		ContinueRequest{AcsURL: threeDS.AcsURL, Payload: threeDS.MerchantData},
		PartialOrder{TransactionID: threeDS.PayerAuthRequest},
	)
	if continueErr != nil {
		return nil, fmt.Errorf("cardinal: failed to continue challenge: %w", continueErr)
	}

	event, err := sub.Await(ctx, PhaseAuthorization)
	if err != nil {
		return nil, err
	}

	if !event.Status {
		description := ""
		if event.Data != nil {
			description = event.Data.ErrorDescription
		}
		return nil, &AuthenticationError{Description: description}
	}

	card.ThreeDSecure = &strategy.ThreeDSecureToken{Token: event.JWT}
	payment.PaymentData = card

	return p.store.Dispatch(ctx, p.payments.SubmitPayment(payment))
}

// Finalize is not supported; order finalization belongs to the order
// component
func (p *ThreeDSecureProcessor) Finalize(ctx context.Context, options *strategy.RequestOptions) (*strategy.State, error) {
	return nil, strategy.ErrOrderFinalizationNotRequired
}

// Deinitialize resolves with the current state. The vendor SDK stays
// alive: the Songbird singleton is expensive to reinitialize and is reused
// across strategy instances within a page session.
func (p *ThreeDSecureProcessor) Deinitialize(ctx context.Context, options *strategy.RequestOptions) (*strategy.State, error) {
	return p.store.State(), nil
}

func (p *ThreeDSecureProcessor) methodID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.method == nil {
		return ""
	}
	return p.method.ID
}
