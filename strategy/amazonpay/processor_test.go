package amazonpay

import (
	"context"
	"errors"
	"testing"

	"github.com/ecompay/checkout/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(api *fakeAPI, wallet WalletSDK, loadErr error) *WalletProcessor {
	store := strategy.NewCheckoutStore(strategy.State{})
	loader := SDKLoaderFunc(func(ctx context.Context, method *strategy.PaymentMethod) (WalletSDK, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return wallet, nil
	})
	return NewWalletProcessor(store, strategy.NewPaymentMethodActionCreator(api), loader)
}

func TestWalletProcessor_Initialize(t *testing.T) {
	wallet := &fakeWallet{}
	processor := newTestProcessor(&fakeAPI{}, wallet, nil)

	err := processor.Initialize(context.Background(), MethodID)
	require.NoError(t, err)

	_, err = processor.CreateButton("#container", ButtonParams{})
	assert.NoError(t, err)
}

func TestWalletProcessor_InitializeLoadFailure(t *testing.T) {
	processor := newTestProcessor(&fakeAPI{}, nil, errors.New("script blocked"))

	err := processor.Initialize(context.Background(), MethodID)
	assert.ErrorContains(t, err, "failed to load wallet SDK")
}

func TestWalletProcessor_OperationsBeforeInitialize(t *testing.T) {
	processor := newTestProcessor(&fakeAPI{}, &fakeWallet{}, nil)

	err := processor.BindButton("#edit", "session-1")
	var notInit *strategy.NotInitializedError
	assert.ErrorAs(t, err, &notInit)

	_, err = processor.CreateButton("#container", ButtonParams{})
	assert.ErrorAs(t, err, &notInit)
}

func TestWalletProcessor_DeinitializeDropsHandle(t *testing.T) {
	wallet := &fakeWallet{}
	processor := newTestProcessor(&fakeAPI{}, wallet, nil)

	require.NoError(t, processor.Initialize(context.Background(), MethodID))
	require.NoError(t, processor.Deinitialize(context.Background()))

	err := processor.BindButton("#edit", "session-1")
	var notInit *strategy.NotInitializedError
	assert.ErrorAs(t, err, &notInit)
}

func TestWalletProcessor_SignoutConfiguresOnDemand(t *testing.T) {
	wallet := &fakeWallet{}
	processor := newTestProcessor(&fakeAPI{}, wallet, nil)

	err := processor.Signout(context.Background(), MethodID)
	require.NoError(t, err)
	assert.Equal(t, 1, wallet.signoutCalls)
}
