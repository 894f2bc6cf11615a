package strategy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	endpointOrders        = "/api/checkout/orders"
	endpointOrderFinalize = "/api/checkout/orders/%d/finalize"
	endpointPayments      = "/api/checkout/payments"
	endpointMethod        = "/api/checkout/payment-methods/%s"
)

// APIClient is the checkout backend surface consumed by the action
// creators. The concrete Client talks HTTP; tests substitute fakes.
type APIClient interface {
	SubmitOrder(ctx context.Context, order OrderRequest, options *RequestOptions) (*Order, error)
	FinalizeOrder(ctx context.Context, orderID int64, options *RequestOptions) (*Order, error)
	SubmitPayment(ctx context.Context, payment PaymentRequestBody) (PaymentStatus, error)
	LoadPaymentMethod(ctx context.Context, methodID string) (*PaymentMethod, error)
}

// Client is the HTTP implementation of APIClient
type Client struct {
	http *CheckoutHTTPClient
}

// NewClient creates a checkout API client for the given base URL
func NewClient(baseURL string, isProduction bool) *Client {
	return &Client{
		http: NewCheckoutHTTPClient(CreateHTTPClientConfig(baseURL, isProduction, 0)),
	}
}

type orderEnvelope struct {
	Order *Order `json:"order"`
}

type paymentEnvelope struct {
	Status PaymentStatus `json:"status"`
}

// SubmitOrder creates the backend order for the given payload
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest, options *RequestOptions) (*Order, error) {
	req := &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointOrders,
		Headers:  map[string]string{"X-Conversation-Id": uuid.New().String()},
		Body:     order,
	}
	if options != nil && options.Params != nil {
		req.QueryParams = options.Params
	}

	resp, err := c.http.SendJSON(ctx, req)
	if err != nil {
		return nil, err
	}

	var envelope orderEnvelope
	if err := c.http.ParseJSONResponse(resp, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if envelope.Order == nil {
		return nil, fmt.Errorf("order response missing order")
	}

	return envelope.Order, nil
}

// FinalizeOrder finalizes a previously submitted order
func (c *Client) FinalizeOrder(ctx context.Context, orderID int64, options *RequestOptions) (*Order, error) {
	req := &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: fmt.Sprintf(endpointOrderFinalize, orderID),
		Headers:  map[string]string{"X-Conversation-Id": uuid.New().String()},
	}
	if options != nil && options.Params != nil {
		req.QueryParams = options.Params
	}

	resp, err := c.http.SendJSON(ctx, req)
	if err != nil {
		return nil, err
	}

	var envelope orderEnvelope
	if err := c.http.ParseJSONResponse(resp, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode finalize response: %w", err)
	}
	if envelope.Order == nil {
		return nil, fmt.Errorf("finalize response missing order")
	}

	return envelope.Order, nil
}

// SubmitPayment submits the payment for the current order. Step-up
// requirements surface as a RequestError carrying the challenge parameters.
func (c *Client) SubmitPayment(ctx context.Context, payment PaymentRequestBody) (PaymentStatus, error) {
	req := &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointPayments,
		Headers:  map[string]string{"X-Conversation-Id": uuid.New().String()},
		Body:     payment,
	}

	resp, err := c.http.SendJSON(ctx, req)
	if err != nil {
		return "", err
	}

	var envelope paymentEnvelope
	if err := c.http.ParseJSONResponse(resp, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode payment response: %w", err)
	}
	if envelope.Status == "" {
		envelope.Status = StatusAcknowledge
	}

	return envelope.Status, nil
}

// LoadPaymentMethod fetches the current configuration of a payment method
func (c *Client) LoadPaymentMethod(ctx context.Context, methodID string) (*PaymentMethod, error) {
	req := &HTTPRequest{
		Method:   http.MethodGet,
		Endpoint: fmt.Sprintf(endpointMethod, methodID),
	}

	resp, err := c.http.SendJSON(ctx, req)
	if err != nil {
		return nil, err
	}

	var method PaymentMethod
	if err := c.http.ParseJSONResponse(resp, &method); err != nil {
		return nil, fmt.Errorf("failed to decode payment method: %w", err)
	}
	if method.ID == "" {
		method.ID = methodID
	}

	return &method, nil
}
