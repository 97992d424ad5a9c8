package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
)

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	pi, err := h.svc.CreatePaymentIntent(ctx, CustomerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentIntent(pi, h.publicKey))
}

// CheckoutDefaults prefills the checkout form from the customer's saved profile.
func (h *Handler) CheckoutDefaults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	s, err := h.svc.CheckoutDefaults(ctx, CustomerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckoutDefaults{Shipping: toShipping(s)})
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	ref := req.PaymentRef
	if ref == "" && req.ClientSecret != "" {
		ref = payment.RefFromClientSecret(req.ClientSecret)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := h.svc.ConfirmOrder(ctx, CustomerFrom(r.Context()), fromShipping(req.Shipping), ref, req.SaveInfo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrder(o))
}
