package strategy

import (
	"errors"
	"fmt"
)

// Submission error codes recognized by the strategies
const (
	ErrCodeThreeDSecureRequired = "three_d_secure_required"
	ErrCodeEnrolledCard         = "enrolled_card"
)

// MissingDataError indicates required configuration or state was absent
// (payment method, client token, checkout config). Never retried.
type MissingDataError struct {
	Subject string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("unable to proceed because %s is missing", e.Subject)
}

// NewMissingDataError creates a MissingDataError for the given subject
func NewMissingDataError(subject string) *MissingDataError {
	return &MissingDataError{Subject: subject}
}

// InvalidArgumentError indicates the caller omitted or malformed a required
// option
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Message == "" {
		return "invalid argument"
	}
	return e.Message
}

// NewInvalidArgumentError creates an InvalidArgumentError with the given message
func NewInvalidArgumentError(message string) *InvalidArgumentError {
	return &InvalidArgumentError{Message: message}
}

// NotInitializedError indicates an operation requiring a completed
// Initialize was invoked first, or the vendor pre-check rejected the card
type NotInitializedError struct {
	Message string
}

func (e *NotInitializedError) Error() string {
	if e.Message == "" {
		return "payment strategy is not initialized"
	}
	return e.Message
}

// NewNotInitializedError creates a NotInitializedError with the given message
func NewNotInitializedError(message string) *NotInitializedError {
	return &NotInitializedError{Message: message}
}

// ErrOrderFinalizationNotRequired is the sentinel rejection from Finalize
// when there is nothing to finalize. The orchestrator treats it as a
// control signal, not a failure.
var ErrOrderFinalizationNotRequired = errors.New("order finalization is not required")

// SubmissionErrorEntry is one coded error returned by the checkout API
type SubmissionErrorEntry struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ThreeDSResult carries the challenge parameters delivered with a
// step-up-required submission error
type ThreeDSResult struct {
	AcsURL           string `json:"acs_url"`
	MerchantData     string `json:"merchant_data"`
	PayerAuthRequest string `json:"payer_auth_request"`
}

// SubmissionErrorBody is the error body shape returned by order and payment
// submission endpoints
type SubmissionErrorBody struct {
	Errors        []SubmissionErrorEntry `json:"errors"`
	ThreeDSResult *ThreeDSResult         `json:"three_ds_result,omitempty"`
}

// RequestError is a failed checkout API call with a decoded error body
type RequestError struct {
	Status int
	Body   SubmissionErrorBody
}

func (e *RequestError) Error() string {
	if len(e.Body.Errors) > 0 {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body.Errors[0].Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HasErrorCode reports whether err is a RequestError carrying the given
// error code
func HasErrorCode(err error, code string) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}

	for _, entry := range reqErr.Body.Errors {
		if entry.Code == code {
			return true
		}
	}

	return false
}

// ThreeDSResultOf extracts the challenge parameters from a RequestError,
// or nil when err is not a RequestError or carries none
func ThreeDSResultOf(err error) *ThreeDSResult {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return nil
	}
	return reqErr.Body.ThreeDSResult
}
