package v1

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecompay/checkout/handler"
	"github.com/ecompay/checkout/infra/config"
	"github.com/ecompay/checkout/strategy"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	// Import for side-effect registration
	_ "github.com/ecompay/checkout/strategy/amazonpay"
	_ "github.com/ecompay/checkout/strategy/cardinal"
	_ "github.com/ecompay/checkout/strategy/googlepay"
)

// headlessDocument is the document surface used by the HTTP deployment,
// where no page exists. QuerySelector never matches.
type headlessDocument struct{}

func (headlessDocument) QuerySelector(selector string) strategy.Element { return nil }

// httpFormPoster performs redirect form posts server-side
type httpFormPoster struct {
	client *http.Client
}

func (p *httpFormPoster) PostForm(ctx context.Context, target string, data map[string]string) error {
	form := url.Values{}
	for key, value := range data {
		form.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// NewDependencies builds the collaborator set strategies are constructed with
func NewDependencies(cfg *config.AppConfig) *strategy.Dependencies {
	apiClient := strategy.NewClient(cfg.APIBaseURL, cfg.Production)
	store := strategy.NewCheckoutStore(strategy.State{})

	return &strategy.Dependencies{
		Store:      store,
		Orders:     strategy.NewOrderActionCreator(apiClient),
		Payments:   strategy.NewPaymentActionCreator(apiClient),
		Methods:    strategy.NewPaymentMethodActionCreator(apiClient),
		Strategies: strategy.NewPaymentStrategyActionCreator(),
		Document:   headlessDocument{},
		FormPoster: &httpFormPoster{client: http.DefaultClient},
		Vendor:     map[string]any{},
	}
}

// Routes registers all API routes
func Routes(r chi.Router, lifecycleLogger strategy.LifecycleLogger) {
	cfg := config.GetAppConfig()
	checkoutService := strategy.NewCheckoutService(strategy.DefaultRegistry, NewDependencies(cfg), lifecycleLogger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validator.New())

	// Checkout lifecycle routes
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/{methodID}/initialize", checkoutHandler.Initialize)
		r.Post("/{methodID}/execute", checkoutHandler.Execute)
		r.Post("/{methodID}/finalize", checkoutHandler.Finalize)
		r.Post("/{methodID}/deinitialize", checkoutHandler.Deinitialize)
	})
}
