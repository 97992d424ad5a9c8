package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
)

type addItemRequest struct {
	ProductID int64  `json:"productId"`
	OptionID  *int64 `json:"optionId,omitempty"`
	Quantity  int    `json:"quantity"`
}

type setItemRequest struct {
	Quantity int `json:"quantity"`
}

type discountRequest struct {
	Code string `json:"code"`
}

func (h *Handler) GetBag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := h.svc.PriceBag(ctx, CustomerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBag(view))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	upd, err := h.svc.AddItem(ctx, CustomerFrom(r.Context()), req.ProductID, req.OptionID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

func (h *Handler) SetItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineKeyParam(w, r)
	if !ok {
		return
	}
	var req setItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	upd, err := h.svc.SetItem(ctx, CustomerFrom(r.Context()), key.ProductID, key.OptionID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key, ok := lineKeyParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.RemoveItem(ctx, CustomerFrom(r.Context()), key.ProductID, key.OptionID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := h.svc.ApplyDiscount(ctx, CustomerFrom(r.Context()), req.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBag(view))
}

func (h *Handler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.RemoveDiscount(ctx, CustomerFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func lineKeyParam(w http.ResponseWriter, r *http.Request) (bag.LineKey, bool) {
	key, err := bag.ParseLineKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return bag.LineKey{}, false
	}
	return key, true
}
