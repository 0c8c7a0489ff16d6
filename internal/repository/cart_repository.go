package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const cartKeyPrefix = "cart:"

type cartRepository struct {
	kv   port.KeyValueStore
	opts options

	// carts holds a document only while some call uses it; the store stays the source of truth.
	mu    sync.Mutex
	carts map[string]*cartDoc
}

type cartDoc struct {
	*document[domain.Cart]
	refs int
}

func NewCart(kv port.KeyValueStore, opts ...Option) port.CartRepository {
	return &cartRepository{
		kv:    kv,
		opts:  buildOptions(opts),
		carts: make(map[string]*cartDoc),
	}
}

// doc returns the owner's document and a func that must be called once the caller is done with it.
// Callers for the same owner share one document so its mutex serializes them.
func (r *cartRepository) doc(ownerID string) (*document[domain.Cart], func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.carts[ownerID]
	if !ok {
		d = &cartDoc{document: newDocument(r.kv, cartKeyPrefix+ownerID, domain.Cart.Clone)}
		r.carts[ownerID] = d
	}
	d.refs++

	return d.document, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		d.refs--
		if d.refs == 0 {
			delete(r.carts, ownerID)
		}
	}
}

func (r *cartRepository) update(ctx context.Context, ownerID string, fn func(c *domain.Cart) (bool, error)) (domain.Cart, error) {
	d, done := r.doc(ownerID)
	defer done()

	return d.update(ctx, fn)
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	d, done := r.doc(ownerID)
	defer done()

	cart, err := d.read(ctx)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("doc.read: %w", err)
	}

	cart.OwnerID = ownerID
	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, product domain.Product, quantity int, selections domain.Selections) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}
	if product.ID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("productID is empty")
	}

	cart, err := r.update(ctx, ownerID, func(c *domain.Cart) (bool, error) {
		c.OwnerID = ownerID
		if err := c.Add(product, quantity, selections, r.opts.now()); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("update: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	var matched bool
	_, err := r.update(ctx, ownerID, func(c *domain.Cart) (bool, error) {
		matched = c.UpdateQuantity(productID, selections, quantity, r.opts.now())
		return matched, nil
	})
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}

	return matched, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID, selections domain.Selections) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	var deleted bool
	_, err := r.update(ctx, ownerID, func(c *domain.Cart) (bool, error) {
		deleted = c.Remove(productID, selections, r.opts.now())
		return deleted, nil
	})
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}

	return deleted, nil
}

func (r *cartRepository) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := r.update(ctx, ownerID, func(c *domain.Cart) (bool, error) {
		c.OwnerID = ownerID
		c.Clear(r.opts.now())
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	return nil
}

// Subtract takes the quantities of items off the owner's cart. Lines added or grown since items
// were read are kept.
func (r *cartRepository) Subtract(ctx context.Context, ownerID string, items []domain.CartItem) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	cart, err := r.update(ctx, ownerID, func(c *domain.Cart) (bool, error) {
		c.OwnerID = ownerID
		return c.Subtract(items, r.opts.now()), nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("update: %w", err)
	}

	cart.OwnerID = ownerID
	return cart, nil
}
