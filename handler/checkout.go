package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ecompay/checkout/infra/response"
	"github.com/ecompay/checkout/strategy"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CheckoutServiceInterface defines the interface for strategy lifecycle operations
type CheckoutServiceInterface interface {
	Initialize(ctx context.Context, options *strategy.InitializeOptions) (*strategy.State, error)
	Execute(ctx context.Context, methodID string, payload strategy.OrderRequest, options *strategy.ExecuteOptions) (*strategy.State, error)
	Finalize(ctx context.Context, methodID string, options *strategy.FinalizeOptions) (*strategy.State, error)
	Deinitialize(ctx context.Context, methodID string, options *strategy.DeinitializeOptions) (*strategy.State, error)
}

// CheckoutHandler handles checkout lifecycle HTTP requests
type CheckoutHandler struct {
	checkoutService CheckoutServiceInterface
	validate        *validator.Validate
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService CheckoutServiceInterface, validate *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validate:        validate,
	}
}

// initializeRequest is the request body accepted by Initialize
type initializeRequest struct {
	GatewayID   string `json:"gatewayId,omitempty"`
	ContainerID string `json:"containerId,omitempty"`
}

// Initialize prepares the strategy for the payment method in the URL
func (h *CheckoutHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	methodID := chi.URLParam(r, "methodID")
	if methodID == "" {
		response.Error(w, http.StatusBadRequest, "Missing method ID", nil)
		return
	}

	var req initializeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	}

	state, err := h.checkoutService.Initialize(ctx, &strategy.InitializeOptions{
		MethodID:    methodID,
		GatewayID:   req.GatewayID,
		ContainerID: req.ContainerID,
	})
	if err != nil {
		writeStrategyError(w, "Initialization failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Strategy initialized", state)
}

// Execute submits the order and payment through the method's strategy
func (h *CheckoutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	methodID := chi.URLParam(r, "methodID")
	if methodID == "" {
		response.Error(w, http.StatusBadRequest, "Missing method ID", nil)
		return
	}

	var payload strategy.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if payload.Payment != nil {
		if err := h.validate.Struct(payload.Payment); err != nil {
			response.Error(w, http.StatusBadRequest, "Validation error", err)
			return
		}
	}

	state, err := h.checkoutService.Execute(ctx, methodID, payload, &strategy.ExecuteOptions{})
	if err != nil {
		writeStrategyError(w, "Order submission failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Order submitted", state)
}

// Finalize completes an order left pending by a redirect flow
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	methodID := chi.URLParam(r, "methodID")
	if methodID == "" {
		response.Error(w, http.StatusBadRequest, "Missing method ID", nil)
		return
	}

	state, err := h.checkoutService.Finalize(ctx, methodID, &strategy.FinalizeOptions{})
	if err != nil {
		writeStrategyError(w, "Finalization failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Order finalized", state)
}

// Deinitialize tears down the method's strategy
func (h *CheckoutHandler) Deinitialize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	methodID := chi.URLParam(r, "methodID")
	if methodID == "" {
		response.Error(w, http.StatusBadRequest, "Missing method ID", nil)
		return
	}

	state, err := h.checkoutService.Deinitialize(ctx, methodID, &strategy.DeinitializeOptions{})
	if err != nil {
		writeStrategyError(w, "Deinitialization failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Strategy deinitialized", state)
}

// writeStrategyError maps strategy error types onto HTTP status codes
func writeStrategyError(w http.ResponseWriter, message string, err error) {
	var missingData *strategy.MissingDataError
	var invalidArg *strategy.InvalidArgumentError
	var notInitialized *strategy.NotInitializedError
	var reqErr *strategy.RequestError

	switch {
	case errors.Is(err, strategy.ErrOrderFinalizationNotRequired):
		response.Error(w, http.StatusUnprocessableEntity, message, err)
	case errors.As(err, &missingData), errors.As(err, &invalidArg):
		response.Error(w, http.StatusBadRequest, message, err)
	case errors.As(err, &notInitialized):
		response.Error(w, http.StatusConflict, message, err)
	case errors.As(err, &reqErr):
		response.Error(w, http.StatusBadGateway, message, err)
	default:
		response.Error(w, http.StatusInternalServerError, message, err)
	}
}
