package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
)

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type paymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Admin.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) adminOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orders, err := h.svc.Admin.Orders(r.Context(), service.OrderQuery{
		Search: q.Get("search"),
		Status: domain.OrderStatus(q.Get("status")),
		Sort:   service.OrderSort(q.Get("sort")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "orderID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req statusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.svc.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "orderID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req paymentStatusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.svc.Orders.UpdatePaymentStatus(r.Context(), id, req.PaymentStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decode(r, &product); err != nil {
		h.writeError(w, r, err)
		return
	}

	added, err := h.svc.Catalog.Add(r.Context(), product)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "productID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch service.ProductPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.svc.Catalog.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "productID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.Catalog.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) collectionHistory(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: limit[%s] is not a number", domain.ErrInvalidInput, raw))
			return
		}
		limit = n
	}

	revisions, err := h.svc.Admin.History(r.Context(), chi.URLParam(r, "collection"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, revisions)
}
