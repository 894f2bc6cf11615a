package amazonpay

import (
	"context"

	"github.com/ecompay/checkout/strategy"
)

var editButtonIDs = []string{
	strategy.EditShippingAddressButtonID,
	strategy.EditBillingAddressButtonID,
	strategy.EditMethodAddressButtonID,
}

// Strategy is the Amazon Pay offsite payment strategy. When the buyer
// already holds a wallet session token the checkout's own address buttons
// are rewired to the vendor's change-session flow and execution submits
// order and payment directly; otherwise the vendor sign-in flow runs
// first. A backend step-up requirement turns into a full-page form-post
// redirect to the vendor challenge URL.
type Strategy struct {
	store      strategy.Store
	strategies *strategy.PaymentStrategyActionCreator
	methods    *strategy.PaymentMethodActionCreator
	orders     *strategy.OrderActionCreator
	payments   *strategy.PaymentActionCreator
	processor  *WalletProcessor
	document   strategy.Document
	formPoster strategy.FormPoster

	methodID       string
	walletButton   strategy.Element
	signInCustomer func(ctx context.Context) error
}

// NewStrategy creates an Amazon Pay strategy from the shared dependencies
func NewStrategy(deps *strategy.Dependencies, processor *WalletProcessor) *Strategy {
	return &Strategy{
		store:      deps.Store,
		strategies: deps.Strategies,
		methods:    deps.Methods,
		orders:     deps.Orders,
		payments:   deps.Payments,
		processor:  processor,
		document:   deps.Document,
		formPoster: deps.FormPoster,
	}
}

// Initialize loads the method and either rebinds the edit-address buttons
// to the existing wallet session or renders the sign-in button
func (s *Strategy) Initialize(ctx context.Context, options *strategy.InitializeOptions) (*strategy.State, error) {
	if err := strategy.ValidateInitializeOptions(options); err != nil {
		return nil, err
	}

	if options.ContainerID == "" && options.SignInCustomer == nil {
		return nil, strategy.NewInvalidArgumentError("unable to proceed because wallet options are not provided")
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
	s.signInCustomer = options.SignInCustomer

	if err := s.processor.Initialize(ctx, options.MethodID); err != nil {
		return nil, err
	}

	if paymentToken := method.InitializationData.PaymentToken; paymentToken != "" {
		for _, buttonID := range editButtonIDs {
			if err := s.bindEditButton(ctx, buttonID, paymentToken); err != nil {
				return nil, err
			}
		}
	} else {
		button, err := s.createSignInButton(options.ContainerID, method, state)
		if err != nil {
			return nil, err
		}
		s.walletButton = button
	}

	return s.store.State(), nil
}

// Execute submits the order and payment for an established session, or
// runs the sign-in flow when none exists. A step-up-coded submission
// failure posts the browser to the vendor challenge URL; the returned
// state records the redirect and nothing further resolves in-page.
func (s *Strategy) Execute(ctx context.Context, payload strategy.OrderRequest, options *strategy.ExecuteOptions) (*strategy.State, error) {
	if s.methodID == "" {
		return nil, strategy.NewMissingDataError("payment method")
	}

	state, err := s.store.Dispatch(ctx, s.methods.LoadPaymentMethod(s.methodID))
	if err != nil {
		return nil, err
	}

	method := state.PaymentMethod(s.methodID)
	if method == nil {
		return nil, strategy.NewMissingDataError("payment method")
	}

	if method.InitializationData.PaymentToken == "" {
		if s.signInCustomer == nil {
			return nil, strategy.NewInvalidArgumentError("unable to proceed because no sign-in flow is configured")
		}
		return s.store.Dispatch(ctx, s.strategies.WidgetInteraction(s.signInCustomer))
	}

	if err := strategy.ValidatePaymentRequestBody(payload.Payment); err != nil {
		return nil, err
	}
	payment := *payload.Payment

	var requestOptions *strategy.RequestOptions
	if options != nil {
		requestOptions = options.Request
	}

	if _, err := s.store.Dispatch(ctx, s.orders.SubmitOrder(payload.WithoutPayment(), requestOptions)); err != nil {
		return nil, err
	}

	state, err = s.store.Dispatch(ctx, s.payments.SubmitPayment(payment))
	if err == nil {
		return state, nil
	}

	threeDS := strategy.ThreeDSResultOf(err)
	if threeDS == nil || !strategy.HasErrorCode(err, strategy.ErrCodeThreeDSecureRequired) {
		return nil, err
	}

	// The vendor hosts the challenge; navigation supersedes this call.
	if err := s.formPoster.PostForm(ctx, threeDS.AcsURL, map[string]string{}); err != nil {
		return nil, err
	}

	return s.store.Dispatch(ctx, s.strategies.RecordRedirect(threeDS.AcsURL))
}

// Finalize finalizes the order when the redirect flow left it acknowledged
func (s *Strategy) Finalize(ctx context.Context, options *strategy.FinalizeOptions) (*strategy.State, error) {
	state := s.store.State()

	if state.Order == nil {
		return nil, strategy.ErrOrderFinalizationNotRequired
	}

	if state.PaymentStatus != strategy.StatusAcknowledge && state.PaymentStatus != strategy.StatusFinalize {
		return nil, strategy.ErrOrderFinalizationNotRequired
	}

	var requestOptions *strategy.RequestOptions
	if options != nil {
		requestOptions = options.Request
	}

	return s.store.Dispatch(ctx, s.orders.FinalizeOrder(state.Order.OrderID, requestOptions))
}

// Deinitialize removes the injected sign-in button and clears the sign-in
// callback; always succeeds and may be called repeatedly
func (s *Strategy) Deinitialize(ctx context.Context, options *strategy.DeinitializeOptions) (*strategy.State, error) {
	if s.walletButton != nil {
		s.walletButton.Remove()
		s.walletButton = nil
	}

	s.signInCustomer = nil

	if err := s.processor.Deinitialize(ctx); err != nil {
		return nil, err
	}

	return s.store.State(), nil
}

// bindEditButton swaps the page button for a listener-free clone bound to
// the wallet change-session flow. A missing button is a silent no-op.
func (s *Strategy) bindEditButton(ctx context.Context, buttonID, sessionID string) error {
	if s.document == nil {
		return nil
	}

	button := s.document.QuerySelector(buttonID)
	if button == nil {
		return nil
	}

	clone := button.CloneNode()
	button.ReplaceWith(clone)

	clone.AddEventListener("click", func() {
		// Keep the busy indicator up; the wallet widget owns the rest of
		// the interaction.
		_, _ = s.store.Dispatch(ctx, s.strategies.WidgetInteraction(func(ctx context.Context) error {
			return nil
		}))
	})

	return s.processor.BindButton(buttonID, sessionID)
}

func (s *Strategy) createSignInButton(containerID string, method *strategy.PaymentMethod, state *strategy.State) (strategy.Element, error) {
	if containerID == "" {
		return nil, strategy.NewInvalidArgumentError("unable to create sign-in button without valid container ID")
	}

	if method.Config.MerchantID == "" {
		return nil, strategy.NewInvalidArgumentError("unable to create sign-in button without merchant ID")
	}

	config := state.Config
	if config == nil {
		return nil, strategy.NewMissingDataError("checkout config")
	}

	productType := PayAndShip
	if state.Cart != nil && state.Cart.PhysicalItemCount == 0 {
		productType = PayOnly
	}

	params := ButtonParams{
		MerchantID:       method.Config.MerchantID,
		Sandbox:          method.Config.TestMode,
		CheckoutLanguage: method.InitializationData.CheckoutLanguage,
		LedgerCurrency:   method.InitializationData.LedgerCurrency,
		Region:           method.InitializationData.Region,
		ProductType:      productType,
		Placement:        PlacementCheckout,
		CheckoutSession: CheckoutSessionConfig{
			Method: method.InitializationData.CheckoutSessionMethod,
			URL:    config.SiteLink + "/remote-checkout/" + s.methodID + "/payment-session",
		},
	}

	return s.processor.CreateButton("#"+containerID, params)
}
