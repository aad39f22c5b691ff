package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/diacor/portal/docs" // swagger docs
)

// NewRouter wires the portal routes. lookupRateLimit caps plate lookups per client IP per minute,
// zero disables the limit.
func NewRouter(h *Handler, mw *Middleware, lookupRateLimit int) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", h.HealthHandler)
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		r.Group(func(r chi.Router) {
			if lookupRateLimit > 0 {
				r.Use(httprate.LimitByIP(lookupRateLimit, time.Minute))
			}

			r.Get("/portal/{plate}", h.ClientByPlate)
		})

		r.Post("/payments/card", h.CreateCardPayment)
		r.Get("/payment/tilopay/callback", h.CardPaymentCallback)

		r.Route("/private/v1", func(r chi.Router) {
			r.Use(mw.APIKeyAuth)
			r.Post("/payments/manual", h.RecordManualPayment)
		})
	})

	return mux
}
