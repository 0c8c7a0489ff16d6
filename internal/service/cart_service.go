package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/rs/zerolog"
)

// CartView is a cart together with its totals, computed on every read.
type CartView struct {
	Cart    domain.Cart       `json:"cart"`
	Pricing pricing.Breakdown `json:"pricing"`
}

type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
	users    port.UserRepository
	policy   pricing.Policy
	logger   zerolog.Logger
	locks    *ownerLocks
}

func NewCartService(
	carts port.CartRepository,
	products port.ProductRepository,
	users port.UserRepository,
	policy pricing.Policy,
	logger zerolog.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		users:    users,
		policy:   policy,
		logger:   logger.With().Str("component", "cart").Logger(),
		locks:    newOwnerLocks(),
	}
}

func (s *CartService) view(cart domain.Cart) (CartView, error) {
	breakdown, err := s.policy.Compute(cart.Items)
	if err != nil {
		return CartView{}, fmt.Errorf("policy.Compute: %w", err)
	}
	return CartView{Cart: cart, Pricing: breakdown}, nil
}

func (s *CartService) Get(ctx context.Context, ownerID string) (CartView, error) {
	if ownerID == "" {
		return CartView{}, invalid("ownerID is empty")
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return CartView{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return s.view(cart)
}

// AddItem puts quantity units of the catalog product into the owner's cart.
// The cart keeps a snapshot of the product as it is now.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int, selections domain.Selections) (CartView, error) {
	if ownerID == "" {
		return CartView{}, invalid("ownerID is empty")
	}
	if quantity < 1 {
		return CartView{}, invalid("quantity must be positive")
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return CartView{}, fmt.Errorf("products.Get: %w", err)
	}

	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return CartView{}, fmt.Errorf("locks.lock: %w", err)
	}
	defer unlock()

	cart, err := s.addLocked(ctx, ownerID, product, quantity, selections)
	if err != nil {
		return CartView{}, err
	}

	s.logger.Debug().
		Str("owner_id", ownerID).
		Stringer("product_id", productID).
		Int("quantity", quantity).
		Msg("item added to cart")

	return s.view(cart)
}

// addLocked checks the product against the policy currency and its stock, counting what the cart
// already holds, then stores the line. The caller holds the owner's lock.
func (s *CartService) addLocked(ctx context.Context, ownerID string, product domain.Product, quantity int, selections domain.Selections) (domain.Cart, error) {
	if err := s.checkCurrency(product); err != nil {
		return domain.Cart{}, err
	}

	current, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	inCart := current.Quantity(product.ID, selections)
	if err := checkAvailability(product, selections, inCart+quantity); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.carts.AddItem(ctx, ownerID, product, quantity, selections)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.AddItem: %w", err)
	}
	return cart, nil
}

func (s *CartService) checkCurrency(product domain.Product) error {
	if product.Price.Currency != s.policy.Currency {
		return fmt.Errorf("product[%s] priced in %s, cart in %s: %w",
			product.ID, product.Price.Currency, s.policy.Currency, domain.ErrCurrencyMismatch)
	}
	return nil
}

// checkAvailability reports whether quantity units of product with selections can be in one cart line.
func checkAvailability(product domain.Product, selections domain.Selections, quantity int) error {
	if !product.InStock() {
		return fmt.Errorf("product[%s]: %w", product.ID, domain.ErrOutOfStock)
	}

	for typ, value := range selections {
		offered := false
		for _, v := range product.Variations {
			if string(v.Type) != typ || v.Value != value {
				continue
			}
			if !v.InStock {
				return fmt.Errorf("product[%s] %s=%s: %w", product.ID, typ, value, domain.ErrOutOfStock)
			}
			offered = true
			break
		}
		if !offered {
			return invalid("product[%s] does not offer %s=%s", product.ID, typ, value)
		}
	}

	if available := product.Available(selections); quantity > available {
		return fmt.Errorf("product[%s]: %d requested, %d available: %w",
			product.ID, quantity, available, domain.ErrOutOfStock)
	}

	return nil
}

// UpdateQuantity sets the quantity of the (product, selections) line; quantity <= 0 removes it.
// A missing line is not an error. A new quantity above the catalog stock is rejected.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections, quantity int) (CartView, error) {
	if ownerID == "" {
		return CartView{}, invalid("ownerID is empty")
	}

	if quantity > 0 {
		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return CartView{}, fmt.Errorf("products.Get: %w", err)
		}
		if err := checkAvailability(product, selections, quantity); err != nil {
			return CartView{}, err
		}
	}

	if _, err := s.carts.UpdateQuantity(ctx, ownerID, productID, selections, quantity); err != nil {
		return CartView{}, fmt.Errorf("carts.UpdateQuantity: %w", err)
	}

	return s.Get(ctx, ownerID)
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections) (CartView, error) {
	if ownerID == "" {
		return CartView{}, invalid("ownerID is empty")
	}

	if _, err := s.carts.DeleteItem(ctx, ownerID, productID, selections); err != nil {
		return CartView{}, fmt.Errorf("carts.DeleteItem: %w", err)
	}

	return s.Get(ctx, ownerID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return invalid("ownerID is empty")
	}

	if err := s.carts.Clear(ctx, ownerID); err != nil {
		return fmt.Errorf("carts.Clear: %w", err)
	}

	return nil
}

// AddWishlist adds one unit of every wishlist product that can still be sold.
// Products that were deleted, sold out or have no stock left beyond what the cart holds are skipped.
// It returns the number of products added.
func (s *CartService) AddWishlist(ctx context.Context, ownerID, userID string) (CartView, int, error) {
	if ownerID == "" {
		return CartView{}, 0, invalid("ownerID is empty")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return CartView{}, 0, fmt.Errorf("users.Get: %w", err)
	}

	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return CartView{}, 0, fmt.Errorf("locks.lock: %w", err)
	}
	defer unlock()

	var added int
	for _, productID := range user.Wishlist {
		product, err := s.products.Get(ctx, productID)
		if err != nil {
			s.logger.Debug().Err(err).Stringer("product_id", productID).Msg("wishlist product skipped")
			continue
		}

		_, err = s.addLocked(ctx, ownerID, product, 1, nil)
		switch {
		case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrCurrencyMismatch):
			s.logger.Debug().Err(err).Stringer("product_id", productID).Msg("wishlist product skipped")
			continue
		case err != nil:
			return CartView{}, added, err
		}
		added++
	}

	view, err := s.Get(ctx, ownerID)
	if err != nil {
		return CartView{}, added, err
	}

	return view, added, nil
}
