package billing

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)

		r.Post("/{id}/validate", h.Validate)
		r.Post("/{id}/cancel", h.Cancel)
		r.Post("/{id}/send", h.Send)
		r.Post("/{id}/accept", h.Accept)
		r.Post("/{id}/refuse", h.Refuse)

		r.Get("/{id}/payments", h.ListPayments)
		r.Post("/{id}/payments", h.RecordPayment)
	})

	r.Get("/reports/receivables", h.Receivables)
}
