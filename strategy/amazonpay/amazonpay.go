// Package amazonpay implements the Amazon Pay offsite payment strategy:
// wallet session binding, sign-in button rendering and the redirect-based
// step-up fallback around order submission.
package amazonpay

import (
	"context"

	"github.com/ecompay/checkout/strategy"
)

// MethodID is the payment method this strategy serves
const MethodID = "amazonpay"

// ChangeAction names the wallet flow a rebound edit button triggers
type ChangeAction string

const (
	ChangeAddress ChangeAction = "changeAddress"
)

// Placement identifies where the sign-in button is rendered
type Placement string

const (
	PlacementCheckout Placement = "Checkout"
)

// ProductType selects the wallet checkout mode
type ProductType string

const (
	PayAndShip ProductType = "PayAndShip"
	PayOnly    ProductType = "PayOnly"
)

// CheckoutSessionConfig tells the wallet how to create a checkout session
type CheckoutSessionConfig struct {
	Method string
	URL    string
}

// ButtonParams configures the rendered sign-in button
type ButtonParams struct {
	MerchantID       string
	Sandbox          bool
	CheckoutLanguage string
	LedgerCurrency   string
	Region           string
	ProductType      ProductType
	Placement        Placement
	CheckoutSession  CheckoutSessionConfig
}

// BindOptions configures a change-action binding on an existing button
type BindOptions struct {
	SessionID    string
	ChangeAction ChangeAction
}

// WalletSDK is the vendor wallet handle the processor drives
type WalletSDK interface {
	// RenderButton injects the vendor sign-in button into the container.
	RenderButton(containerID string, params ButtonParams) (strategy.Element, error)

	// BindChangeAction wires an existing button to a wallet session flow.
	BindChangeAction(buttonID string, options BindOptions) error

	// Signout clears the buyer's wallet session.
	Signout(ctx context.Context) error
}

// SDKLoader retrieves the wallet SDK for the given payment method
type SDKLoader interface {
	Load(ctx context.Context, method *strategy.PaymentMethod) (WalletSDK, error)
}

// SDKLoaderFunc adapts a function to the SDKLoader interface
type SDKLoaderFunc func(ctx context.Context, method *strategy.PaymentMethod) (WalletSDK, error)

// Load calls f
func (f SDKLoaderFunc) Load(ctx context.Context, method *strategy.PaymentMethod) (WalletSDK, error) {
	return f(ctx, method)
}
