package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type PaymentRequest struct {
	UserID string
	Method string
	Amount domain.Money
}

type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) (domain.PaymentStatus, error)
}
