package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type productRepository struct {
	doc  *document[[]domain.Product]
	opts options
}

func NewProduct(kv port.KeyValueStore, opts ...Option) port.ProductRepository {
	return &productRepository{
		doc:  newDocument(kv, port.KeyProducts, cloneProducts),
		opts: buildOptions(opts),
	}
}

func cloneProducts(products []domain.Product) []domain.Product {
	return cloneSlice(products, domain.Product.Clone)
}

func indexOfProduct(products []domain.Product, productID uuid.UUID) int {
	for i := range products {
		if products[i].ID == productID {
			return i
		}
	}
	return -1
}

// Seed stores products only when the catalog has never been persisted.
func (r *productRepository) Seed(ctx context.Context, products []domain.Product) error {
	seeded := make([]domain.Product, 0, len(products))
	for _, p := range products {
		p = p.Clone()
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = r.opts.now()
		}
		seeded = append(seeded, p)
	}

	if _, err := r.doc.init(ctx, seeded); err != nil {
		return fmt.Errorf("doc.init: %w", err)
	}

	return nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.doc.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("doc.read: %w", err)
	}

	return products, nil
}

func (r *productRepository) Get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	products, err := r.doc.read(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("doc.read: %w", err)
	}

	idx := indexOfProduct(products, productID)
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	return products[idx], nil
}

func (r *productRepository) Add(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	_, err := r.doc.update(ctx, func(products *[]domain.Product) (bool, error) {
		if indexOfProduct(*products, product.ID) >= 0 {
			return false, fmt.Errorf("product[%s] already exists", product.ID)
		}
		*products = append(*products, product.Clone())
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("doc.update: %w", err)
	}

	return nil
}

// Update applies fn to the stored product. The ID cannot be changed.
func (r *productRepository) Update(ctx context.Context, productID uuid.UUID, fn func(p *domain.Product) error) (domain.Product, error) {
	var updated domain.Product

	_, err := r.doc.update(ctx, func(products *[]domain.Product) (bool, error) {
		idx := indexOfProduct(*products, productID)
		if idx < 0 {
			return false, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
		}

		p := &(*products)[idx]
		if err := fn(p); err != nil {
			return false, err
		}
		p.ID = productID

		updated = p.Clone()
		return true, nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("doc.update: %w", err)
	}

	return updated, nil
}

func (r *productRepository) Delete(ctx context.Context, productID uuid.UUID) (bool, error) {
	var deleted bool

	_, err := r.doc.update(ctx, func(products *[]domain.Product) (bool, error) {
		idx := indexOfProduct(*products, productID)
		if idx < 0 {
			return false, nil
		}
		*products = append((*products)[:idx], (*products)[idx+1:]...)
		deleted = true
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("doc.update: %w", err)
	}

	return deleted, nil
}
