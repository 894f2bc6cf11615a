package cardinal

import "github.com/ecompay/checkout/strategy"

// Register the cardinal strategy with the checkout registry
func init() {
	strategy.Register(MethodID, func(deps *strategy.Dependencies) strategy.PaymentStrategy {
		loader, _ := deps.Vendor[MethodID].(SDKLoader)
		processor := NewThreeDSecureProcessor(deps.Store, deps.Orders, deps.Payments, loader)
		return NewStrategy(deps.Store, deps.Methods, processor)
	})
}
