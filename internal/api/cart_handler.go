package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
)

type cartLineRequest struct {
	ProductID  uuid.UUID         `json:"productId"`
	Quantity   int               `json:"quantity"`
	Selections domain.Selections `json:"selectedVariations,omitempty"`
}

type addWishlistRequest struct {
	UserID string `json:"userId"`
}

type addWishlistResponse struct {
	Added int              `json:"added"`
	Cart  service.CartView `json:"cart"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Carts.Get(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.svc.Carts.AddItem(r.Context(), chi.URLParam(r, "ownerID"), req.ProductID, req.Quantity, req.Selections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.svc.Carts.UpdateQuantity(r.Context(), chi.URLParam(r, "ownerID"), req.ProductID, req.Selections, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.svc.Carts.RemoveItem(r.Context(), chi.URLParam(r, "ownerID"), req.ProductID, req.Selections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Carts.Clear(r.Context(), chi.URLParam(r, "ownerID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addWishlistToCart(w http.ResponseWriter, r *http.Request) {
	var req addWishlistRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, added, err := h.svc.Carts.AddWishlist(r.Context(), chi.URLParam(r, "ownerID"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addWishlistResponse{Added: added, Cart: view})
}
