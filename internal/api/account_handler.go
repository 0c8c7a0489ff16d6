package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
)

// userResponse is domain.User without the password hash.
type userResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Phone     string           `json:"phone,omitempty"`
	Addresses []domain.Address `json:"addresses"`
	Wishlist  []uuid.UUID      `json:"wishlist"`
	IsAdmin   bool             `json:"isAdmin"`
	CreatedAt time.Time        `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Addresses: u.Addresses,
		Wishlist:  u.Wishlist,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type wishlistToggleResponse struct {
	InWishlist bool `json:"inWishlist"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Accounts.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Accounts.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch service.ProfilePatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Accounts.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) saveAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := decode(r, &addr); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Accounts.SaveAddress(r.Context(), chi.URLParam(r, "userID"), addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) removeAddress(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Accounts.RemoveAddress(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "addressID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) wishlist(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Accounts.Wishlist(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "productID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	listed, err := h.svc.Accounts.ToggleWishlist(r.Context(), chi.URLParam(r, "userID"), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wishlistToggleResponse{InWishlist: listed})
}
