package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, product domain.Product, quantity int, selections domain.Selections) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections, quantity int) (bool, error)
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections) (bool, error)
	Clear(ctx context.Context, ownerID string) error
	Subtract(ctx context.Context, ownerID string, items []domain.CartItem) (domain.Cart, error)
}
