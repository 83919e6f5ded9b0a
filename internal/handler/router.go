package handler

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router builds the chi router with the global middleware stack and every
// API route.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(h.log))
	r.Use(CORS)

	r.Get("/health", HealthCheck)

	r.Get("/reference", h.Reference)
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.ListCatalog)
		r.Get("/{id}", h.GetOffering)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/toggle", h.Toggle)
		r.Put("/{id}/participants", h.SetParticipants)
		r.Post("/{id}/validate", h.Validate)
		r.Post("/{id}/submit", h.Submit)
	})

	r.Route("/registrations", func(r chi.Router) {
		r.Get("/{id}", h.GetRegistration)
		r.Post("/{id}/payment", h.UpdatePayment)
	})

	r.Post("/contacts", h.CreateContact)
	r.Post("/donations", h.CreateDonation)

	// The admin area only exists when a signing secret and password hash
	// are configured.
	if h.auth.Enabled() {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly(h.auth))
				r.Get("/dashboard", h.Dashboard)
				r.Get("/registrations", h.ListRegistrations)
			})
		})
	}

	return r
}
