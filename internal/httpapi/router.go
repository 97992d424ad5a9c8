package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(Identity)

	r.Get("/health", h.Health)
	r.Post("/webhooks/stripe", h.StripeWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)

			r.Get("/bag", h.GetBag)
			r.Post("/bag/items", h.AddItem)
			r.Put("/bag/items/{key}", h.SetItem)
			r.Delete("/bag/items/{key}", h.RemoveItem)
			r.Post("/bag/discount", h.ApplyDiscount)
			r.Delete("/bag/discount", h.RemoveDiscount)

			r.Post("/checkout/intent", h.CreatePaymentIntent)
			r.Post("/checkout", h.ConfirmOrder)
		})

		r.Get("/checkout/defaults", h.CheckoutDefaults)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{orderNumber}", h.GetOrder)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
