package strategy

import "time"

// PaymentStatus represents the backend-reported status of a submitted payment
type PaymentStatus string

const (
	StatusInitialize  PaymentStatus = "INITIALIZE"
	StatusAcknowledge PaymentStatus = "ACKNOWLEDGE"
	StatusFinalize    PaymentStatus = "FINALIZE"
)

// MethodConfig holds merchant-level settings for a payment method
type MethodConfig struct {
	MerchantID  string `json:"merchantId,omitempty"`
	TestMode    bool   `json:"testMode"`
	DisplayName string `json:"displayName,omitempty"`
}

// InitializationData carries provider-specific bootstrap values delivered
// with the payment method. Fields are optional; each strategy reads only
// the ones its vendor defines.
type InitializationData struct {
	PaymentToken          string `json:"paymentToken,omitempty"`
	CheckoutLanguage      string `json:"checkoutLanguage,omitempty"`
	LedgerCurrency        string `json:"ledgerCurrency,omitempty"`
	Region                string `json:"region,omitempty"`
	CheckoutSessionMethod string `json:"checkoutSessionMethod,omitempty"`
	StripePublishableKey  string `json:"stripePublishableKey,omitempty"`
}

// PaymentMethod describes a configured payment method as loaded from the
// checkout backend
type PaymentMethod struct {
	ID                 string             `json:"id"`
	Gateway            string             `json:"gateway,omitempty"`
	ClientToken        string             `json:"clientToken,omitempty"`
	Config             MethodConfig       `json:"config"`
	InitializationData InitializationData `json:"initializationData"`
}

// ThreeDSecureToken is the authentication token returned by a completed
// 3-D Secure challenge
type ThreeDSecureToken struct {
	Token string `json:"token"`
}

// CreditCardInstrument is the card data attached to a payment submission.
// Nonce carries a wallet-tokenized card instead of raw PAN data.
type CreditCardInstrument struct {
	CCName       string             `json:"ccName,omitempty"`
	CCNumber     string             `json:"ccNumber,omitempty"`
	CCExpiry     string             `json:"ccExpiry,omitempty"`
	CCCvv        string             `json:"ccCvv,omitempty"`
	Nonce        string             `json:"nonce,omitempty"`
	ThreeDSecure *ThreeDSecureToken `json:"threeDSecure,omitempty"`
}

// PaymentRequestBody is the payment portion of an order payload
type PaymentRequestBody struct {
	MethodID    string                `json:"methodId" validate:"required"`
	GatewayID   string                `json:"gatewayId,omitempty"`
	PaymentData *CreditCardInstrument `json:"paymentData,omitempty"`
}

// OrderRequest is the full checkout submission payload. Payment is nil for
// offsite flows where the vendor collects the instrument.
type OrderRequest struct {
	UseStoreCredit bool                `json:"useStoreCredit,omitempty"`
	CustomerNote   string              `json:"customerNote,omitempty"`
	Payment        *PaymentRequestBody `json:"payment,omitempty"`
}

// WithoutPayment returns a copy of the request with the payment stripped,
// for submissions where the payment is sent in a separate call.
func (r OrderRequest) WithoutPayment() OrderRequest {
	r.Payment = nil
	return r
}

// Order is the backend order created by a successful order submission
type Order struct {
	OrderID   int64         `json:"orderId"`
	Status    PaymentStatus `json:"status,omitempty"`
	Total     float64       `json:"total,omitempty"`
	Currency  string        `json:"currency,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
}

// Cart is the subset of cart state the strategies inspect
type Cart struct {
	PhysicalItemCount int `json:"physicalItemCount"`
	DigitalItemCount  int `json:"digitalItemCount"`
}

// StoreConfig carries storefront settings needed for vendor session URLs
type StoreConfig struct {
	SiteLink string `json:"siteLink"`
}

// RequestOptions carries per-call metadata forwarded to the checkout API
type RequestOptions struct {
	Timeout time.Duration
	Params  map[string]string
}
