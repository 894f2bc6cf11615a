package amazonpay

import (
	"context"
	"fmt"

	"github.com/ecompay/checkout/strategy"
)

// WalletProcessor owns the vendor wallet SDK handle for the strategy and
// wraps the button operations the strategy delegates.
type WalletProcessor struct {
	store    strategy.Store
	methods  *strategy.PaymentMethodActionCreator
	loader   SDKLoader
	sdk      WalletSDK
	methodID string
}

// NewWalletProcessor creates an unconfigured wallet processor
func NewWalletProcessor(store strategy.Store, methods *strategy.PaymentMethodActionCreator, loader SDKLoader) *WalletProcessor {
	return &WalletProcessor{
		store:   store,
		methods: methods,
		loader:  loader,
	}
}

// Initialize loads the payment method and the wallet SDK configured for it
func (p *WalletProcessor) Initialize(ctx context.Context, methodID string) error {
	p.methodID = methodID
	return p.configureWallet(ctx)
}

// Deinitialize drops the SDK handle. The vendor script itself stays
// loaded; only this processor's reference is released.
func (p *WalletProcessor) Deinitialize(ctx context.Context) error {
	p.sdk = nil
	return nil
}

// BindButton wires an existing page button to the wallet's change-address
// flow for the given session
func (p *WalletProcessor) BindButton(buttonID, sessionID string) error {
	if p.sdk == nil {
		return strategy.NewNotInitializedError("wallet processor is not initialized")
	}

	return p.sdk.BindChangeAction(buttonID, BindOptions{
		SessionID:    sessionID,
		ChangeAction: ChangeAddress,
	})
}

// CreateButton renders the vendor sign-in button into the container
func (p *WalletProcessor) CreateButton(containerID string, params ButtonParams) (strategy.Element, error) {
	if p.sdk == nil {
		return nil, strategy.NewNotInitializedError("wallet processor is not initialized")
	}

	return p.sdk.RenderButton(containerID, params)
}

// Signout clears the buyer's wallet session
func (p *WalletProcessor) Signout(ctx context.Context, methodID string) error {
	p.methodID = methodID

	if p.sdk == nil {
		if err := p.configureWallet(ctx); err != nil {
			return err
		}
	}

	return p.sdk.Signout(ctx)
}

func (p *WalletProcessor) configureWallet(ctx context.Context) error {
	if p.methodID == "" {
		return strategy.NewNotInitializedError("wallet processor has no method ID")
	}
	if p.loader == nil {
		return strategy.NewMissingDataError("vendor SDK loader")
	}

	state, err := p.store.Dispatch(ctx, p.methods.LoadPaymentMethod(p.methodID))
	if err != nil {
		return err
	}

	method := state.PaymentMethod(p.methodID)
	if method == nil {
		return strategy.NewMissingDataError("payment method")
	}

	sdk, err := p.loader.Load(ctx, method)
	if err != nil {
		return fmt.Errorf("amazonpay: failed to load wallet SDK: %w", err)
	}
	p.sdk = sdk

	return nil
}
