package cardinal

import (
	"context"

	"github.com/ecompay/checkout/strategy"
)

// MethodID is the payment method this strategy serves
const MethodID = "cybersource"

// Strategy is the inline 3-D Secure card strategy. It loads the payment
// method, delegates authentication to the processor and applies the
// uniform lifecycle contract.
type Strategy struct {
	store     strategy.Store
	methods   *strategy.PaymentMethodActionCreator
	processor *ThreeDSecureProcessor
	methodID  string
}

// NewStrategy creates a cardinal payment strategy over the given processor
func NewStrategy(store strategy.Store, methods *strategy.PaymentMethodActionCreator, processor *ThreeDSecureProcessor) *Strategy {
	return &Strategy{
		store:     store,
		methods:   methods,
		processor: processor,
	}
}

// Initialize loads the payment method and runs vendor setup through the
// processor
func (s *Strategy) Initialize(ctx context.Context, options *strategy.InitializeOptions) (*strategy.State, error) {
	if err := strategy.ValidateInitializeOptions(options); err != nil {
		return nil, err
	}

	state, err := s.store.Dispatch(ctx, s.methods.LoadPaymentMethod(options.MethodID))
	if err != nil {
		return nil, err
	}

	method := state.PaymentMethod(options.MethodID)
	if method == nil {
		return nil, strategy.NewMissingDataError("payment method")
	}

	s.methodID = options.MethodID

	return s.processor.Initialize(ctx, method)
}

// Execute splits the payload into order and payment and delegates the
// authenticated submission to the processor
func (s *Strategy) Execute(ctx context.Context, payload strategy.OrderRequest, options *strategy.ExecuteOptions) (*strategy.State, error) {
	if s.methodID == "" {
		return nil, strategy.NewNotInitializedError("cardinal strategy is not initialized")
	}

	if err := strategy.ValidatePaymentRequestBody(payload.Payment); err != nil {
		return nil, err
	}

	payment := *payload.Payment
	card := payment.PaymentData
	if card == nil {
		return nil, strategy.NewInvalidArgumentError("unable to proceed because payment data is not provided")
	}

	var requestOptions *strategy.RequestOptions
	if options != nil {
		requestOptions = options.Request
	}

	return s.processor.Execute(ctx, payment, payload, card, requestOptions)
}

// Finalize is not required for inline card payments
func (s *Strategy) Finalize(ctx context.Context, options *strategy.FinalizeOptions) (*strategy.State, error) {
	return nil, strategy.ErrOrderFinalizationNotRequired
}

// Deinitialize resolves with the current state, leaving the vendor SDK
// alive for reuse
func (s *Strategy) Deinitialize(ctx context.Context, options *strategy.DeinitializeOptions) (*strategy.State, error) {
	var requestOptions *strategy.RequestOptions
	if options != nil {
		requestOptions = options.Request
	}
	return s.processor.Deinitialize(ctx, requestOptions)
}
