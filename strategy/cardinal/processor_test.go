package cardinal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecompay/checkout/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory APIClient with per-call overrides
type fakeAPI struct {
	submitOrderCalls   int
	submitPaymentCalls int
	lastOrder          strategy.OrderRequest
	lastPayment        strategy.PaymentRequestBody

	paymentErr func(call int) error
	orderErr   error
	methodErr  error
	method     *strategy.PaymentMethod
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, order strategy.OrderRequest, options *strategy.RequestOptions) (*strategy.Order, error) {
	f.submitOrderCalls++
	f.lastOrder = order
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &strategy.Order{OrderID: 295}, nil
}

func (f *fakeAPI) FinalizeOrder(ctx context.Context, orderID int64, options *strategy.RequestOptions) (*strategy.Order, error) {
	return &strategy.Order{OrderID: orderID, Status: strategy.StatusFinalize}, nil
}

func (f *fakeAPI) SubmitPayment(ctx context.Context, payment strategy.PaymentRequestBody) (strategy.PaymentStatus, error) {
	f.submitPaymentCalls++
	f.lastPayment = payment
	if f.paymentErr != nil {
		if err := f.paymentErr(f.submitPaymentCalls); err != nil {
			return "", err
		}
	}
	return strategy.StatusAcknowledge, nil
}

func (f *fakeAPI) LoadPaymentMethod(ctx context.Context, methodID string) (*strategy.PaymentMethod, error) {
	if f.methodErr != nil {
		return nil, f.methodErr
	}
	if f.method != nil {
		return f.method, nil
	}
	return &strategy.PaymentMethod{ID: methodID, ClientToken: "client-token"}, nil
}

// fakeSDK simulates Songbird: registration callbacks fire synchronously
// from inside Setup and Continue, like the real SDK often does.
type fakeSDK struct {
	configured       bool
	setupCalls       int
	onSetupCompleted func(SetupCompletedData)
	onValidated      func(data ValidatedData, jwt string)

	setupFn    func(sdk *fakeSDK) error
	triggerFn  func() (*BinCheckResult, error)
	continueFn func(sdk *fakeSDK) error
}

func (s *fakeSDK) Configure(config Config) { s.configured = true }

func (s *fakeSDK) OnSetupCompleted(handler func(data SetupCompletedData)) {
	s.onSetupCompleted = handler
}

func (s *fakeSDK) OnValidated(handler func(data ValidatedData, jwt string)) {
	s.onValidated = handler
}

func (s *fakeSDK) Setup(ctx context.Context, initializationType InitializationType, options SetupOptions) error {
	s.setupCalls++
	if s.setupFn != nil {
		return s.setupFn(s)
	}
	s.onSetupCompleted(SetupCompletedData{SessionID: "session-1"})
	return nil
}

func (s *fakeSDK) Trigger(ctx context.Context, event TriggerEvent, value string) (*BinCheckResult, error) {
	if s.triggerFn != nil {
		return s.triggerFn()
	}
	return &BinCheckResult{Status: true}, nil
}

func (s *fakeSDK) Continue(ctx context.Context, brand PaymentBrand, request ContinueRequest, order PartialOrder) error {
	if s.continueFn != nil {
		return s.continueFn(s)
	}
	return nil
}

func loaderFor(sdk SDK) SDKLoader {
	return SDKLoaderFunc(func(ctx context.Context, testMode bool) (SDK, error) {
		return sdk, nil
	})
}

func newProcessor(api *fakeAPI, sdk SDK) (*ThreeDSecureProcessor, *strategy.CheckoutStore) {
	store := strategy.NewCheckoutStore(strategy.State{})
	processor := NewThreeDSecureProcessor(
		store,
		strategy.NewOrderActionCreator(api),
		strategy.NewPaymentActionCreator(api),
		loaderFor(sdk),
	)
	return processor, store
}

func testMethod() *strategy.PaymentMethod {
	return &strategy.PaymentMethod{ID: MethodID, ClientToken: "client-token"}
}

func testCard() *strategy.CreditCardInstrument {
	return &strategy.CreditCardInstrument{
		CCName:   "Test Shopper",
		CCNumber: "4111111111111111",
		CCExpiry: "12/30",
		CCCvv:    "123",
	}
}

func testPayment() strategy.PaymentRequestBody {
	return strategy.PaymentRequestBody{MethodID: MethodID}
}

func stepUpError(code string) *strategy.RequestError {
	return &strategy.RequestError{
		Status: 400,
		Body: strategy.SubmissionErrorBody{
			Errors: []strategy.SubmissionErrorEntry{{Code: code}},
			ThreeDSResult: &strategy.ThreeDSResult{
				AcsURL:           "https://acs/url",
				MerchantData:     "merchant_data",
				PayerAuthRequest: "token",
			},
		},
	}
}

func TestProcessor_Initialize(t *testing.T) {
	sdk := &fakeSDK{}
	api := &fakeAPI{}
	processor, _ := newProcessor(api, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	assert.True(t, sdk.configured)
	assert.Equal(t, 1, sdk.setupCalls)
	assert.Equal(t, ProcessorReady, processor.State())
}

func TestProcessor_InitializeIsIdempotent(t *testing.T) {
	sdk := &fakeSDK{}
	processor, _ := newProcessor(&fakeAPI{}, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	_, err = processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	assert.Equal(t, 1, sdk.setupCalls, "vendor setup must run once")
}

func TestProcessor_InitializeMissingData(t *testing.T) {
	tests := []struct {
		name   string
		method *strategy.PaymentMethod
	}{
		{"nil method", nil},
		{"empty client token", &strategy.PaymentMethod{ID: MethodID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, _ := newProcessor(&fakeAPI{}, &fakeSDK{})

			_, err := processor.Initialize(context.Background(), tt.method)

			var missing *strategy.MissingDataError
			assert.ErrorAs(t, err, &missing)
		})
	}
}

func TestProcessor_InitializeWithoutLoader(t *testing.T) {
	store := strategy.NewCheckoutStore(strategy.State{})
	api := &fakeAPI{}
	processor := NewThreeDSecureProcessor(store, strategy.NewOrderActionCreator(api), strategy.NewPaymentActionCreator(api), nil)

	_, err := processor.Initialize(context.Background(), testMethod())

	var missing *strategy.MissingDataError
	assert.ErrorAs(t, err, &missing)
}

func TestProcessor_SignatureValidationErrorPoisonsInstance(t *testing.T) {
	sdk := &fakeSDK{
		setupFn: func(s *fakeSDK) error {
			s.onValidated(ValidatedData{ActionCode: ActionError, ErrorNumber: 1010}, "")
			return nil
		},
	}
	processor, _ := newProcessor(&fakeAPI{}, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.Error(t, err)
	assert.Equal(t, ProcessorFailed, processor.State())

	// A poisoned instance refuses further use.
	_, err = processor.Initialize(context.Background(), testMethod())
	assert.Error(t, err)

	_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)
	var notInit *strategy.NotInitializedError
	assert.ErrorAs(t, err, &notInit)
}

func TestProcessor_ExecuteBeforeInitialize(t *testing.T) {
	sdk := &fakeSDK{}
	api := &fakeAPI{}
	processor, _ := newProcessor(api, sdk)

	_, err := processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)

	var notInit *strategy.NotInitializedError
	require.ErrorAs(t, err, &notInit)
	assert.Zero(t, api.submitOrderCalls)
}

func TestProcessor_ExecuteWithoutStepUp(t *testing.T) {
	sdk := &fakeSDK{}
	api := &fakeAPI{}
	processor, store := newProcessor(api, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	payload := strategy.OrderRequest{
		CustomerNote: "ring twice",
		Payment:      &strategy.PaymentRequestBody{MethodID: MethodID},
	}

	state, err := processor.Execute(context.Background(), testPayment(), payload, testCard(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, api.submitOrderCalls)
	assert.Nil(t, api.lastOrder.Payment, "order submission must not carry the payment")
	assert.Equal(t, "ring twice", api.lastOrder.CustomerNote)
	assert.Equal(t, 1, api.submitPaymentCalls)
	assert.Equal(t, strategy.StatusAcknowledge, state.PaymentStatus)
	assert.Equal(t, ProcessorReady, processor.State())
	assert.NotNil(t, store.State().Order)
}

func TestProcessor_ExecuteRejectsIneligibleCard(t *testing.T) {
	tests := []struct {
		name      string
		triggerFn func() (*BinCheckResult, error)
	}{
		{"trigger error", func() (*BinCheckResult, error) { return nil, errors.New("boom") }},
		{"nil result", func() (*BinCheckResult, error) { return nil, nil }},
		{"false status", func() (*BinCheckResult, error) { return &BinCheckResult{Status: false}, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := &fakeSDK{triggerFn: tt.triggerFn}
			api := &fakeAPI{}
			processor, _ := newProcessor(api, sdk)

			_, err := processor.Initialize(context.Background(), testMethod())
			require.NoError(t, err)

			_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)

			var notInit *strategy.NotInitializedError
			require.ErrorAs(t, err, &notInit)
			assert.Zero(t, api.submitOrderCalls, "nothing may be submitted after a failed pre-check")
		})
	}
}

func TestProcessor_ExecuteValidatesCard(t *testing.T) {
	processor, _ := newProcessor(&fakeAPI{}, &fakeSDK{})
	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	card := testCard()
	card.CCNumber = "not-a-number"

	_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, card, nil)
	assert.Error(t, err)
}

func TestProcessor_StepUpChallengeSuccess(t *testing.T) {
	for _, code := range []string{strategy.ErrCodeEnrolledCard, strategy.ErrCodeThreeDSecureRequired} {
		t.Run(code, func(t *testing.T) {
			sdk := &fakeSDK{
				continueFn: func(s *fakeSDK) error {
					s.onValidated(ValidatedData{ActionCode: ActionSuccess, Validated: true}, "auth-jwt")
					return nil
				},
			}
			api := &fakeAPI{
				paymentErr: func(call int) error {
					if call == 1 {
						return stepUpError(code)
					}
					return nil
				},
			}
			processor, _ := newProcessor(api, sdk)

			_, err := processor.Initialize(context.Background(), testMethod())
			require.NoError(t, err)

			state, err := processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)
			require.NoError(t, err)

			assert.Equal(t, 2, api.submitPaymentCalls, "payment must be resubmitted after the challenge")
			require.NotNil(t, api.lastPayment.PaymentData)
			require.NotNil(t, api.lastPayment.PaymentData.ThreeDSecure)
			assert.Equal(t, "auth-jwt", api.lastPayment.PaymentData.ThreeDSecure.Token)
			assert.Equal(t, strategy.StatusAcknowledge, state.PaymentStatus)
			assert.Equal(t, ProcessorReady, processor.State())
		})
	}
}

func TestProcessor_StepUpChallengeOutcomes(t *testing.T) {
	tests := []struct {
		name            string
		emit            func(s *fakeSDK)
		wantErr         bool
		wantDescription string
	}{
		{
			name: "failure uses the fixed description",
			emit: func(s *fakeSDK) {
				s.onValidated(ValidatedData{ActionCode: ActionFailure, ErrorDescription: "vendor text"}, "")
			},
			wantErr:         true,
			wantDescription: failureDescription,
		},
		{
			name: "noaction with error number rejects",
			emit: func(s *fakeSDK) {
				s.onValidated(ValidatedData{ActionCode: ActionNoAction, ErrorNumber: 1001, ErrorDescription: "no action"}, "")
			},
			wantErr:         true,
			wantDescription: "no action",
		},
		{
			name: "noaction without error number resolves",
			emit: func(s *fakeSDK) {
				s.onValidated(ValidatedData{ActionCode: ActionNoAction}, "bypass-jwt")
			},
		},
		{
			name: "non-signature error rejects the authorization",
			emit: func(s *fakeSDK) {
				s.onValidated(ValidatedData{ActionCode: ActionError, ErrorNumber: 4000, ErrorDescription: "processing error"}, "")
			},
			wantErr:         true,
			wantDescription: "processing error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := &fakeSDK{
				continueFn: func(s *fakeSDK) error {
					tt.emit(s)
					return nil
				},
			}
			api := &fakeAPI{
				paymentErr: func(call int) error {
					if call == 1 {
						return stepUpError(strategy.ErrCodeEnrolledCard)
					}
					return nil
				},
			}
			processor, _ := newProcessor(api, sdk)

			_, err := processor.Initialize(context.Background(), testMethod())
			require.NoError(t, err)

			_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)

			if tt.wantErr {
				var authErr *AuthenticationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, tt.wantDescription, authErr.Description)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, api.submitPaymentCalls)
			}

			// A rejected challenge fails the call, never the instance.
			assert.Equal(t, ProcessorReady, processor.State())
		})
	}
}

func TestProcessor_NonStepUpErrorPropagates(t *testing.T) {
	continueCalled := false
	sdk := &fakeSDK{
		continueFn: func(s *fakeSDK) error {
			continueCalled = true
			return nil
		},
	}
	declined := &strategy.RequestError{
		Status: 402,
		Body: strategy.SubmissionErrorBody{
			Errors: []strategy.SubmissionErrorEntry{{Code: "card_declined"}},
		},
	}
	api := &fakeAPI{paymentErr: func(call int) error { return declined }}
	processor, _ := newProcessor(api, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)

	var reqErr *strategy.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, declined, reqErr)
	assert.False(t, continueCalled)
}

func TestProcessor_SingleFlightExecute(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	sdk := &fakeSDK{
		triggerFn: func() (*BinCheckResult, error) {
			close(entered)
			<-release
			return &BinCheckResult{Status: true}, nil
		},
	}
	processor, _ := newProcessor(&fakeAPI{}, sdk)

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)
		firstDone <- err
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first execute never started")
	}

	_, err = processor.Execute(context.Background(), testPayment(), strategy.OrderRequest{}, testCard(), nil)
	assert.ErrorIs(t, err, ErrAuthenticationInProgress)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestProcessor_FinalizeNotRequired(t *testing.T) {
	processor, _ := newProcessor(&fakeAPI{}, &fakeSDK{})

	_, err := processor.Finalize(context.Background(), nil)
	assert.ErrorIs(t, err, strategy.ErrOrderFinalizationNotRequired)
}

func TestProcessor_DeinitializeKeepsSDK(t *testing.T) {
	processor, store := newProcessor(&fakeAPI{}, &fakeSDK{})

	_, err := processor.Initialize(context.Background(), testMethod())
	require.NoError(t, err)

	state, err := processor.Deinitialize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, store.State(), state)
	assert.Equal(t, ProcessorReady, processor.State())
}
