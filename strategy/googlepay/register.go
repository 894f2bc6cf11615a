package googlepay

import "github.com/ecompay/checkout/strategy"

// Register the Google Pay strategy with the checkout registry
func init() {
	strategy.Register(MethodID, func(deps *strategy.Dependencies) strategy.PaymentStrategy {
		tokenizer, _ := deps.Vendor[MethodID].(CardTokenizer)
		return NewStrategy(deps, tokenizer)
	})
}
