package httpapi

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// StripeWebhook acknowledges processor notifications and marks orders paid on
// payment success. Unrelated events are acknowledged and ignored.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhook == nil || !h.webhook.Enabled() {
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	ev, err := h.webhook.Parse(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid webhook")
		return
	}

	if ev.Succeeded() {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.svc.MarkPaid(ctx, ev.PaymentRef); err != nil {
			h.logger.Error("webhook mark paid", zap.String("event_id", ev.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
