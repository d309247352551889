package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the checkout API. authMW parses bearer tokens into
// request identities; all routes work without one except confirmation.
func NewRouter(h *HTTPHandler, authMW func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(authMW)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/draft", h.CreateDraft)
			r.Get("/", h.EnterPayment)
			r.Put("/method", h.SelectMethod)
			r.Post("/submit", h.Submit)
			r.Post("/qr/cancel", h.CancelQR)
			r.Post("/assert-paid", h.AssertPaid)
		})

		r.Route("/ticket", func(r chi.Router) {
			r.Get("/", h.GetTicket)
			r.Get("/download", h.DownloadTicket)
			r.Post("/back", h.BackToPayment)
			r.Post("/dismiss", h.Dismiss)
		})
	})

	return r
}
