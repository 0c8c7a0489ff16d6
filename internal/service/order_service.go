package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
)

type OrderService struct {
	orders    port.OrderRepository
	publisher port.EventPublisher
	logger    zerolog.Logger
}

func NewOrderService(orders port.OrderRepository, publisher port.EventPublisher, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    logger.With().Str("component", "orders").Logger(),
	}
}

func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.FindByID: %w", err)
	}
	return order, nil
}

// ForUser returns the user's orders, newest first.
func (s *OrderService) ForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, invalid("userID is empty")
	}

	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orders.FindByUser: %w", err)
	}

	sortOrders(orders, SortOrdersNewest)
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, invalid("status[%s] is not valid", status)
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.UpdateStatus: %w", err)
	}

	s.publishChanged(ctx, order)
	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status domain.PaymentStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, invalid("paymentStatus[%s] is not valid", status)
	}

	order, err := s.orders.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.UpdatePaymentStatus: %w", err)
	}

	s.publishChanged(ctx, order)
	return order, nil
}

func (s *OrderService) publishChanged(ctx context.Context, order domain.Order) {
	log := s.logger.With().
		Stringer("order_id", order.ID).
		Str("status", string(order.Status)).
		Str("payment_status", string(order.PaymentStatus)).
		Logger()

	if err := s.publisher.PublishEvent(ctx, port.TopicOrderStatusChanged, order.ID.String(), orderStatusChanged(order)); err != nil {
		log.Warn().Err(err).Msg("order status event not published")
		return
	}

	log.Debug().Msg("order status changed")
}
