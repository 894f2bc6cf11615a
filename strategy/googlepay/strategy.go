package googlepay

import (
	"context"

	"github.com/ecompay/checkout/strategy"
)

// Strategy is the Google Pay (Stripe) payment strategy. The wallet hands
// it a tokenized card; execution tokenizes against the gateway and
// submits order and payment with the gateway reference attached.
type Strategy struct {
	store     strategy.Store
	methods   *strategy.PaymentMethodActionCreator
	orders    *strategy.OrderActionCreator
	payments  *strategy.PaymentActionCreator
	tokenizer CardTokenizer

	methodID string
	method   *strategy.PaymentMethod
}

// NewStrategy creates a Google Pay strategy with the given tokenizer.
// A nil tokenizer defers to a Stripe tokenizer built from the method's
// publishable key at initialize time.
func NewStrategy(deps *strategy.Dependencies, tokenizer CardTokenizer) *Strategy {
	return &Strategy{
		store:     deps.Store,
		methods:   deps.Methods,
		orders:    deps.Orders,
		payments:  deps.Payments,
		tokenizer: tokenizer,
	}
}

// Initialize loads the payment method and prepares the gateway tokenizer
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

	if s.tokenizer == nil {
		key := method.InitializationData.StripePublishableKey
		if key == "" {
			return nil, strategy.NewMissingDataError("stripe publishable key")
		}
		s.tokenizer = NewStripeTokenizer(key)
	}

	s.methodID = options.MethodID
	s.method = method

	return s.store.State(), nil
}

// Execute tokenizes the wallet card and submits order and payment
func (s *Strategy) Execute(ctx context.Context, payload strategy.OrderRequest, options *strategy.ExecuteOptions) (*strategy.State, error) {
	if s.methodID == "" {
		return nil, strategy.NewNotInitializedError("googlepay strategy is not initialized")
	}

	if err := strategy.ValidatePaymentRequestBody(payload.Payment); err != nil {
		return nil, err
	}

	payment := *payload.Payment
	if payment.PaymentData == nil || payment.PaymentData.Nonce == "" {
		return nil, strategy.NewInvalidArgumentError("unable to proceed because wallet token is not provided")
	}

	tokenID, err := s.tokenizer.Tokenize(ctx, s.method, payment.PaymentData.Nonce)
	if err != nil {
		return nil, err
	}

	card := *payment.PaymentData
	card.Nonce = tokenID
	payment.PaymentData = &card

	var requestOptions *strategy.RequestOptions
	if options != nil {
		requestOptions = options.Request
	}

	if _, err := s.store.Dispatch(ctx, s.orders.SubmitOrder(payload.WithoutPayment(), requestOptions)); err != nil {
		return nil, err
	}

	return s.store.Dispatch(ctx, s.payments.SubmitPayment(payment))
}

// Finalize is not required for wallet payments
func (s *Strategy) Finalize(ctx context.Context, options *strategy.FinalizeOptions) (*strategy.State, error) {
	return nil, strategy.ErrOrderFinalizationNotRequired
}

// Deinitialize drops the tokenizer and method binding; always succeeds
func (s *Strategy) Deinitialize(ctx context.Context, options *strategy.DeinitializeOptions) (*strategy.State, error) {
	s.method = nil
	s.methodID = ""
	return s.store.State(), nil
}
