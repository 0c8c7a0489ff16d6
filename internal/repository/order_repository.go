package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type orderRepository struct {
	doc  *document[[]domain.Order]
	opts options
}

func NewOrder(kv port.KeyValueStore, opts ...Option) port.OrderRepository {
	return &orderRepository{
		doc:  newDocument(kv, port.KeyOrders, cloneOrders),
		opts: buildOptions(opts),
	}
}

func cloneOrders(orders []domain.Order) []domain.Order {
	return cloneSlice(orders, domain.Order.Clone)
}

func indexOfOrder(orders []domain.Order, orderID uuid.UUID) int {
	for i := range orders {
		if orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func (r *orderRepository) Append(ctx context.Context, order domain.Order) error {
	if order.ID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if order.UserID == "" {
		return fmt.Errorf("userID is empty")
	}

	_, err := r.doc.update(ctx, func(orders *[]domain.Order) (bool, error) {
		if indexOfOrder(*orders, order.ID) >= 0 {
			return false, fmt.Errorf("order[%s] already exists", order.ID)
		}
		*orders = append(*orders, order.Clone())
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("doc.update: %w", err)
	}

	return nil
}

func (r *orderRepository) mutate(ctx context.Context, orderID uuid.UUID, fn func(o *domain.Order) error) (domain.Order, error) {
	var updated domain.Order

	_, err := r.doc.update(ctx, func(orders *[]domain.Order) (bool, error) {
		idx := indexOfOrder(*orders, orderID)
		if idx < 0 {
			return false, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
		}

		if err := fn(&(*orders)[idx]); err != nil {
			return false, err
		}

		updated = (*orders)[idx].Clone()
		return true, nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("doc.update: %w", err)
	}

	return updated, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	return r.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.SetStatus(status, r.opts.now())
	})
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status domain.PaymentStatus) (domain.Order, error) {
	return r.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.SetPaymentStatus(status, r.opts.now())
	})
}

func (r *orderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	orders, err := r.doc.read(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("doc.read: %w", err)
	}

	idx := indexOfOrder(orders, orderID)
	if idx < 0 {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}

	return orders[idx], nil
}

// FindByUser returns the user's orders in insertion order.
func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	orders, err := r.doc.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("doc.read: %w", err)
	}

	var result []domain.Order
	for _, o := range orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}

	return result, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.doc.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("doc.read: %w", err)
	}

	return orders, nil
}
