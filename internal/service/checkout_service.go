package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/rs/zerolog"
)

const (
	DefaultDeliveryDays  = 7
	DefaultPaymentMethod = "Credit Card"
)

type CheckoutRequest struct {
	UserID          string          `json:"userId"`
	OwnerID         string          `json:"ownerId"`
	ShippingAddress domain.Address  `json:"shippingAddress"`
	BillingAddress  *domain.Address `json:"billingAddress,omitempty"`
	SameAsShipping  bool            `json:"sameAsShipping"`
	PaymentMethod   string          `json:"paymentMethod"`
}

type CheckoutService struct {
	carts     port.CartRepository
	orders    port.OrderRepository
	payments  port.PaymentGateway
	publisher port.EventPublisher
	policy    pricing.Policy
	logger    zerolog.Logger

	deliveryDays int
	now          Clock
	locks        *ownerLocks
}

type CheckoutOption func(*CheckoutService)

func WithDeliveryDays(days int) CheckoutOption {
	return func(s *CheckoutService) {
		if days > 0 {
			s.deliveryDays = days
		}
	}
}

func WithCheckoutClock(now Clock) CheckoutOption {
	return func(s *CheckoutService) {
		s.now = now
	}
}

func NewCheckoutService(
	carts port.CartRepository,
	orders port.OrderRepository,
	payments port.PaymentGateway,
	publisher port.EventPublisher,
	policy pricing.Policy,
	logger zerolog.Logger,
	opts ...CheckoutOption,
) *CheckoutService {
	s := &CheckoutService{
		carts:        carts,
		orders:       orders,
		payments:     payments,
		publisher:    publisher,
		policy:       policy,
		logger:       logger.With().Str("component", "checkout").Logger(),
		deliveryDays: DefaultDeliveryDays,
		now:          time.Now,
		locks:        newOwnerLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r CheckoutRequest) validate() error {
	if r.UserID == "" {
		return invalid("userID is empty")
	}
	if r.OwnerID == "" {
		return invalid("ownerID is empty")
	}
	if missing := r.ShippingAddress.MissingFields(); len(missing) > 0 {
		return invalid("shipping address is missing %s", strings.Join(missing, ", "))
	}
	if r.BillingAddress != nil && !r.SameAsShipping {
		if missing := r.BillingAddress.MissingFields(); len(missing) > 0 {
			return invalid("billing address is missing %s", strings.Join(missing, ", "))
		}
	}
	return nil
}

// PlaceOrder turns the owner's cart into a confirmed, paid order.
// Checkouts of one owner run one at a time. Once started, a checkout runs to completion even if ctx is
// cancelled. Only the lines that went into the order are taken off the cart, after the order is stored.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (domain.Order, error) {
	if err := req.validate(); err != nil {
		return domain.Order{}, err
	}

	unlock, err := s.locks.lock(ctx, req.OwnerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("locks.lock: %w", err)
	}
	defer unlock()

	ctx = context.WithoutCancel(ctx)

	cart, err := s.carts.GetCart(ctx, req.OwnerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("carts.GetCart: %w", err)
	}
	if cart.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	breakdown, err := s.policy.Compute(cart.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("policy.Compute: %w", err)
	}

	method := req.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}

	paymentStatus, err := s.payments.Charge(ctx, port.PaymentRequest{
		UserID: req.UserID,
		Method: method,
		Amount: breakdown.Total,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("payments.Charge: %w", err)
	}
	if paymentStatus != domain.PaymentStatusPaid {
		return domain.Order{}, fmt.Errorf("%w: payment status %s", domain.ErrPaymentDeclined, paymentStatus)
	}

	order, err := s.buildOrder(req, cart, breakdown, method)
	if err != nil {
		return domain.Order{}, fmt.Errorf("buildOrder: %w", err)
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("orders.Append: %w", err)
	}

	log := s.logger.With().Stringer("order_id", order.ID).Str("user_id", order.UserID).Logger()

	if _, err := s.carts.Subtract(ctx, req.OwnerID, cart.Items); err != nil {
		log.Warn().Err(err).Str("owner_id", req.OwnerID).Msg("ordered items not removed from cart")
	}

	event := OrderCreated{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		ItemCount: breakdown.ItemCount,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, port.TopicOrderCreated, order.ID.String(), event); err != nil {
		log.Warn().Err(err).Msg("order created event not published")
	}

	log.Info().Stringer("total", order.Total.Round()).Msg("order placed")

	return order, nil
}

func (s *CheckoutService) buildOrder(req CheckoutRequest, cart domain.Cart, breakdown pricing.Breakdown, method string) (domain.Order, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return domain.Order{}, fmt.Errorf("uuid.NewRandom: %w", err)
	}

	tracking, err := trackingNumber()
	if err != nil {
		return domain.Order{}, fmt.Errorf("trackingNumber: %w", err)
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil && !req.SameAsShipping {
		billing = *req.BillingAddress
	}

	now := s.now().UTC()
	delivery := now.AddDate(0, 0, s.deliveryDays)

	// items are cloned so later cart or catalog changes never reach the order
	items := make([]domain.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = item.Clone()
	}

	return domain.Order{
		ID:                id,
		UserID:            req.UserID,
		Items:             items,
		Subtotal:          breakdown.Subtotal,
		Tax:               breakdown.Tax,
		Shipping:          breakdown.Shipping,
		Total:             breakdown.Total,
		Status:            domain.OrderStatusConfirmed,
		PaymentStatus:     domain.PaymentStatusPaid,
		PaymentMethod:     method,
		ShippingAddress:   req.ShippingAddress,
		BillingAddress:    billing,
		TrackingNumber:    tracking,
		EstimatedDelivery: &delivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// trackingNumber returns "TRK" followed by 12 uppercase hex characters.
func trackingNumber() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return "TRK" + strings.ToUpper(hex.EncodeToString(b)), nil
}
