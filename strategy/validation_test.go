package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInitializeOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *InitializeOptions
		wantErr error
	}{
		{
			name:    "nil options",
			options: nil,
			wantErr: &InvalidArgumentError{},
		},
		{
			name:    "missing method ID",
			options: &InitializeOptions{},
			wantErr: &MissingDataError{},
		},
		{
			name:    "valid",
			options: &InitializeOptions{MethodID: "cybersource"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInitializeOptions(tt.options)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.IsType(t, tt.wantErr, err)
			}
		})
	}
}

func TestValidatePaymentRequestBody(t *testing.T) {
	assert.IsType(t, &InvalidArgumentError{}, ValidatePaymentRequestBody(nil))
	assert.IsType(t, &MissingDataError{}, ValidatePaymentRequestBody(&PaymentRequestBody{}))
	assert.NoError(t, ValidatePaymentRequestBody(&PaymentRequestBody{MethodID: "cybersource"}))
}

func TestValidateCardInstrument(t *testing.T) {
	tests := []struct {
		name    string
		card    *CreditCardInstrument
		wantErr bool
	}{
		{
			name:    "nil card",
			card:    nil,
			wantErr: true,
		},
		{
			name: "valid card",
			card: &CreditCardInstrument{CCNumber: "4111111111111111", CCExpiry: "12/2030"},
		},
		{
			name:    "missing number",
			card:    &CreditCardInstrument{CCExpiry: "12/2030"},
			wantErr: true,
		},
		{
			name:    "non numeric number",
			card:    &CreditCardInstrument{CCNumber: "4111-1111-1111-1111", CCExpiry: "12/2030"},
			wantErr: true,
		},
		{
			name:    "number too short",
			card:    &CreditCardInstrument{CCNumber: "4111", CCExpiry: "12/2030"},
			wantErr: true,
		},
		{
			name:    "missing expiry",
			card:    &CreditCardInstrument{CCNumber: "4111111111111111"},
			wantErr: true,
		},
		{
			name: "nonce bypasses card checks",
			card: &CreditCardInstrument{Nonce: "wallet-nonce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardInstrument(tt.card)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
