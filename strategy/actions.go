package strategy

import (
	"context"
	"fmt"
)

// Action type names
const (
	ActionSubmitOrder       = "ORDER_SUBMIT"
	ActionFinalizeOrder     = "ORDER_FINALIZE"
	ActionSubmitPayment     = "PAYMENT_SUBMIT"
	ActionLoadPaymentMethod = "PAYMENT_METHOD_LOAD"
	ActionWidgetInteraction = "WIDGET_INTERACTION"
	ActionRecordRedirect    = "REDIRECT_RECORD"
)

type actionFunc struct {
	name  string
	apply func(ctx context.Context, s *State) error
}

func (a *actionFunc) Type() string { return a.name }

func (a *actionFunc) Apply(ctx context.Context, s *State) error { return a.apply(ctx, s) }

// OrderActionCreator builds order submission and finalization actions
type OrderActionCreator struct {
	client APIClient
}

// NewOrderActionCreator creates an OrderActionCreator backed by the given client
func NewOrderActionCreator(client APIClient) *OrderActionCreator {
	return &OrderActionCreator{client: client}
}

// SubmitOrder creates an action that submits the order and records the
// created order on the state
func (c *OrderActionCreator) SubmitOrder(order OrderRequest, options *RequestOptions) Action {
	return &actionFunc{
		name: ActionSubmitOrder,
		apply: func(ctx context.Context, s *State) error {
			created, err := c.client.SubmitOrder(ctx, order, options)
			if err != nil {
				return err
			}
			s.Order = created
			return nil
		},
	}
}

// FinalizeOrder creates an action that finalizes a previously submitted order
func (c *OrderActionCreator) FinalizeOrder(orderID int64, options *RequestOptions) Action {
	return &actionFunc{
		name: ActionFinalizeOrder,
		apply: func(ctx context.Context, s *State) error {
			finalized, err := c.client.FinalizeOrder(ctx, orderID, options)
			if err != nil {
				return err
			}
			s.Order = finalized
			s.PaymentStatus = StatusFinalize
			return nil
		},
	}
}

// PaymentActionCreator builds payment submission actions
type PaymentActionCreator struct {
	client APIClient
}

// NewPaymentActionCreator creates a PaymentActionCreator backed by the given client
func NewPaymentActionCreator(client APIClient) *PaymentActionCreator {
	return &PaymentActionCreator{client: client}
}

// SubmitPayment creates an action that submits the payment for the current
// order. A RequestError from the client propagates unchanged so callers can
// inspect step-up codes.
func (c *PaymentActionCreator) SubmitPayment(payment PaymentRequestBody) Action {
	return &actionFunc{
		name: ActionSubmitPayment,
		apply: func(ctx context.Context, s *State) error {
			if s.Order == nil {
				return fmt.Errorf("payment submitted before order")
			}
			status, err := c.client.SubmitPayment(ctx, payment)
			if err != nil {
				return err
			}
			s.PaymentStatus = status
			return nil
		},
	}
}

// PaymentMethodActionCreator builds payment-method loading actions
type PaymentMethodActionCreator struct {
	client APIClient
}

// NewPaymentMethodActionCreator creates a PaymentMethodActionCreator backed
// by the given client
func NewPaymentMethodActionCreator(client APIClient) *PaymentMethodActionCreator {
	return &PaymentMethodActionCreator{client: client}
}

// LoadPaymentMethod creates an action that loads the method's current
// configuration into the state
func (c *PaymentMethodActionCreator) LoadPaymentMethod(methodID string) Action {
	return &actionFunc{
		name: ActionLoadPaymentMethod,
		apply: func(ctx context.Context, s *State) error {
			method, err := c.client.LoadPaymentMethod(ctx, methodID)
			if err != nil {
				return err
			}
			if s.PaymentMethods == nil {
				s.PaymentMethods = make(map[string]*PaymentMethod)
			}
			s.PaymentMethods[method.ID] = method
			return nil
		},
	}
}

// PaymentStrategyActionCreator builds strategy-level UI actions
type PaymentStrategyActionCreator struct{}

// NewPaymentStrategyActionCreator creates a PaymentStrategyActionCreator
func NewPaymentStrategyActionCreator() *PaymentStrategyActionCreator {
	return &PaymentStrategyActionCreator{}
}

// WidgetInteraction creates an action that runs the callback while the
// state is flagged as interacting, so the UI can show a busy indicator for
// the duration of a vendor widget flow.
func (c *PaymentStrategyActionCreator) WidgetInteraction(callback func(ctx context.Context) error) Action {
	return &actionFunc{
		name: ActionWidgetInteraction,
		apply: func(ctx context.Context, s *State) error {
			if callback == nil {
				return NewInvalidArgumentError("widget interaction requires a callback")
			}
			s.WidgetInteracting = true
			defer func() { s.WidgetInteracting = false }()
			return callback(ctx)
		},
	}
}

// RecordRedirect creates an action that marks the checkout as handed off to
// an external page
func (c *PaymentStrategyActionCreator) RecordRedirect(url string) Action {
	return &actionFunc{
		name: ActionRecordRedirect,
		apply: func(ctx context.Context, s *State) error {
			s.Redirect = &Redirect{URL: url}
			return nil
		},
	}
}
