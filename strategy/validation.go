package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateInitializeOptions checks the options common to every strategy
func ValidateInitializeOptions(options *InitializeOptions) error {
	if options == nil {
		return NewInvalidArgumentError("unable to initialize payment because options is not provided")
	}
	if options.MethodID == "" {
		return NewMissingDataError("payment method ID")
	}
	return nil
}

// ValidatePaymentRequestBody checks a payment payload before submission
func ValidatePaymentRequestBody(payment *PaymentRequestBody) error {
	if payment == nil {
		return NewInvalidArgumentError("unable to proceed because payment is not provided")
	}
	if payment.MethodID == "" {
		return NewMissingDataError("payment method ID")
	}
	return nil
}

// ValidateCardInstrument checks card fields the vendor pre-checks need
func ValidateCardInstrument(card *CreditCardInstrument) error {
	if card == nil {
		return NewInvalidArgumentError("unable to proceed because payment data is not provided")
	}

	if card.Nonce != "" {
		return nil
	}

	if err := validate.Var(card.CCNumber, "required,numeric,min=12,max=19"); err != nil {
		return fmt.Errorf("invalid card number: %w", err)
	}
	if err := validate.Var(card.CCExpiry, "required"); err != nil {
		return fmt.Errorf("invalid card expiry: %w", err)
	}

	return nil
}
