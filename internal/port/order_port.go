package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	Append(ctx context.Context, order domain.Order) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status domain.PaymentStatus) (domain.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}
