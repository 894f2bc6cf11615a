package amazonpay

import "github.com/ecompay/checkout/strategy"

// Register the Amazon Pay strategy with the checkout registry
func init() {
	strategy.Register(MethodID, func(deps *strategy.Dependencies) strategy.PaymentStrategy {
		loader, _ := deps.Vendor[MethodID].(SDKLoader)
		processor := NewWalletProcessor(deps.Store, deps.Methods, loader)
		return NewStrategy(deps, processor)
	})
}
