package router

import (
	v1 "github.com/ecompay/checkout/router/v1"
	"github.com/ecompay/checkout/strategy"
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, lifecycleLogger strategy.LifecycleLogger) {
	r.Route("/v1", func(r chi.Router) {
		v1.Routes(r, lifecycleLogger)
	})
}
