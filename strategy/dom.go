package strategy

import "context"

// Well-known edit-button selectors rebound by wallet strategies when a
// vendor session already exists. Absence of a button is tolerated silently.
const (
	EditShippingAddressButtonID = "#edit-shipping-address-button"
	EditBillingAddressButtonID  = "#edit-billing-address-button"
	EditMethodAddressButtonID   = "#edit-method-address-button"
)

// Element is the minimal DOM node surface the strategies manipulate
type Element interface {
	// CloneNode returns a deep copy of the element without its listeners.
	CloneNode() Element

	// ReplaceWith swaps this element for the replacement in its parent.
	ReplaceWith(replacement Element)

	// AddEventListener registers a handler for the given event.
	AddEventListener(event string, handler func())

	// Remove detaches the element from the document.
	Remove()
}

// Document is the page surface strategies query for button containers.
// QuerySelector returns nil when no element matches.
type Document interface {
	QuerySelector(selector string) Element
}

// FormPoster issues the form-POST navigation used by redirect flows. The
// post hands control to the target page; nothing beyond the error is
// observed by this layer.
type FormPoster interface {
	PostForm(ctx context.Context, url string, data map[string]string) error
}
