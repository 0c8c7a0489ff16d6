// Package api exposes the storefront services as a JSON HTTP API under /api/v1.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/rs/zerolog"
)

type Services struct {
	Catalog  *service.CatalogService
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Accounts *service.AccountService
	Admin    *service.AdminService
}

type Handler struct {
	svc    Services
	logger zerolog.Logger
}

func NewHandler(svc Services, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/featured", h.featuredProducts)
			r.Get("/brands", h.brands)
			r.Get("/{productID}", h.getProduct)
		})
		r.Get("/categories", h.categories)

		r.Route("/carts/{ownerID}", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addCartItem)
			r.Put("/items", h.updateCartItem)
			r.Post("/items/remove", h.removeCartItem)
			r.Post("/wishlist", h.addWishlistToCart)
		})

		r.Post("/checkout", h.checkout)
		r.Get("/orders/{orderID}", h.getOrder)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", h.getUser)
			r.Patch("/", h.updateProfile)
			r.Get("/orders", h.userOrders)
			r.Put("/addresses", h.saveAddress)
			r.Delete("/addresses/{addressID}", h.removeAddress)
			r.Get("/wishlist", h.wishlist)
			r.Post("/wishlist/{productID}", h.toggleWishlist)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", h.dashboard)
			r.Get("/orders", h.adminOrders)
			r.Patch("/orders/{orderID}/status", h.updateOrderStatus)
			r.Patch("/orders/{orderID}/payment-status", h.updatePaymentStatus)
			r.Post("/products", h.addProduct)
			r.Patch("/products/{productID}", h.updateProduct)
			r.Delete("/products/{productID}", h.deleteProduct)
			r.Get("/history/{collection}", h.collectionHistory)
		})
	})

	return r
}
