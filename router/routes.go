// Package router wires the HTTP handlers onto the chi route tree.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/VietOpenCPS/payment/handler"

	// Import for side-effect registration
	_ "github.com/VietOpenCPS/payment/connector/dummy"
	_ "github.com/VietOpenCPS/payment/connector/stripe"
)

// Deps carries the wired handlers the route tree serves.
type Deps struct {
	Payments *handler.PaymentHandler
	Configs  *handler.ConfigHandler
	Health   *handler.HealthHandler

	// Audit is optional; audit routes are only mounted when the audit
	// sink is configured.
	Audit *handler.AuditHandler
}

// Routes registers all API routes
func Routes(r chi.Router, deps Deps) {
	r.Get("/health", deps.Health.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Post("/{connector}/{operation}", deps.Payments.Execute)
		})

		// Callback routes for redirect-based flows; gateways return the
		// customer with either GET or POST.
		r.Route("/callback", func(r chi.Router) {
			r.HandleFunc("/{connector}", deps.Payments.HandleCallback)
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/{connector}", deps.Payments.HandleWebhook)
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", deps.Configs.ListConnectors)
			r.Get("/stats", deps.Configs.Stats)
			r.Post("/{connector}", deps.Configs.SetConfig)
			r.Get("/{connector}", deps.Configs.GetConfig)
			r.Delete("/{connector}", deps.Configs.DeleteConfig)
		})

		if deps.Audit != nil {
			r.Route("/audit", func(r chi.Router) {
				r.Get("/{connector}", deps.Audit.ListEntries)
				r.Get("/{connector}/errors", deps.Audit.RecentErrors)
				r.Get("/{connector}/stats", deps.Audit.Stats)
				r.Get("/{connector}/transactions/{transactionID}", deps.Audit.TransactionTrail)
			})
		}
	})
}
