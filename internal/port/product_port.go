package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	Seed(ctx context.Context, products []domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	Add(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, productID uuid.UUID, fn func(p *domain.Product) error) (domain.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) (bool, error)
}
