// Package googlepay implements the Google Pay payment strategy for
// Stripe-processed methods: the wallet nonce is exchanged for a Stripe
// payment method before the payment is submitted to the checkout backend.
package googlepay

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/ecompay/checkout/strategy"
)

// MethodID is the payment method this strategy serves
const MethodID = "googlepaystripe"

// CardTokenizer exchanges a wallet-tokenized card for a gateway payment
// method reference
type CardTokenizer interface {
	Tokenize(ctx context.Context, method *strategy.PaymentMethod, nonce string) (string, error)
}

// StripeTokenizer implements CardTokenizer with the Stripe API
type StripeTokenizer struct {
	api *client.API
}

// NewStripeTokenizer creates a tokenizer authenticated with the given
// publishable key
func NewStripeTokenizer(key string) *StripeTokenizer {
	api := &client.API{}
	api.Init(key, nil)
	return &StripeTokenizer{api: api}
}

// Tokenize converts the Google Pay token into a Stripe payment method ID
func (t *StripeTokenizer) Tokenize(ctx context.Context, method *strategy.PaymentMethod, nonce string) (string, error) {
	if nonce == "" {
		return "", errors.New("googlepay: wallet nonce is required")
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Token: stripe.String(nonce),
		},
	}
	params.Context = ctx

	paymentMethod, err := t.api.PaymentMethods.New(params)
	if err != nil {
		return "", err
	}

	return paymentMethod.ID, nil
}
