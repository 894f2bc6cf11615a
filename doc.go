// Package checkout provides a payment strategy orchestration layer that puts
// heterogeneous payment vendor integrations behind one uniform lifecycle:
// initialize, execute, finalize, deinitialize. Each payment method registers
// a strategy, and the checkout service drives every method through the same
// four phases regardless of how the vendor actually works underneath.
//
// # Overview
//
// Vendor payment SDKs disagree about everything: some collect the instrument
// themselves, some demand a 3-D Secure challenge mid-submission, some bounce
// the buyer to an offsite page and come back later. The strategy layer
// absorbs those differences so the rest of checkout only ever sees the
// uniform contract.
//
// # Supported Methods
//
// Currently supported payment methods include:
//   - cybersource: card payments with Cardinal 3-D Secure step-up handling
//   - amazonpay: offsite wallet flow with redirect finalization
//   - googlepaystripe: Google Pay tokens exchanged through Stripe
//
// # Quick Start
//
// Basic usage example:
//
//	package main
//
//	import (
//	    "context"
//
//	    "github.com/ecompay/checkout/strategy"
//	    _ "github.com/ecompay/checkout/strategy/amazonpay" // Import to register strategy
//	)
//
//	func main() {
//	    service := strategy.NewCheckoutService(strategy.DefaultRegistry, deps, nil)
//
//	    state, err := service.Initialize(context.Background(), &strategy.InitializeOptions{
//	        MethodID:    "amazonpay",
//	        ContainerID: "#amazon-pay-button",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = state
//	}
//
// Strategies register themselves in an init function, so importing a method
// package is all it takes to make the method available.
package checkout
