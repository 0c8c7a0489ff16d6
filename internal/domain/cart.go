package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string     `json:"ownerId"`
	Items   []CartItem `json:"items"`

	UpdatedAt time.Time `json:"updatedAt"`
}

type CartItem struct {
	Product    Product    `json:"product"`
	Quantity   int        `json:"quantity"`
	Selections Selections `json:"selectedVariations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Selections maps a variation type to the chosen value, e.g. color=red.
type Selections map[string]string

// LineKey identifies a cart line: the same product with different selections is a different line.
type LineKey string

func NewLineKey(productID uuid.UUID, selections Selections) LineKey {
	return LineKey(productID.String() + "|" + selections.canonical())
}

func (s Selections) canonical() string {
	if len(s) == 0 {
		return ""
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s[k])
	}
	return b.String()
}

func (s Selections) Clone() Selections {
	if s == nil {
		return nil
	}
	c := make(Selections, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (i CartItem) Key() LineKey {
	return NewLineKey(i.Product.ID, i.Selections)
}

func (i CartItem) Clone() CartItem {
	c := i
	c.Product = i.Product.Clone()
	c.Selections = i.Selections.Clone()
	return c
}

func (c Cart) Clone() Cart {
	clone := c
	if c.Items != nil {
		clone.Items = make([]CartItem, len(c.Items))
		for i, item := range c.Items {
			clone.Items[i] = item.Clone()
		}
	}
	return clone
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) indexOf(key LineKey) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// Add increments the quantity of the matching line or appends a new one.
func (c *Cart) Add(product Product, quantity int, selections Selections, now time.Time) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive")
	}

	key := NewLineKey(product.ID, selections)
	if idx := c.indexOf(key); idx >= 0 {
		c.Items[idx].Quantity += quantity
		c.UpdatedAt = now
		return nil
	}

	c.Items = append(c.Items, CartItem{
		Product:    product.Clone(),
		Quantity:   quantity,
		Selections: selections.Clone(),
		CreatedAt:  now,
	})
	c.UpdatedAt = now
	return nil
}

// UpdateQuantity sets the quantity of the matching line; quantity <= 0 removes it.
// It reports whether a line matched.
func (c *Cart) UpdateQuantity(productID uuid.UUID, selections Selections, quantity int, now time.Time) bool {
	if quantity <= 0 {
		return c.Remove(productID, selections, now)
	}

	idx := c.indexOf(NewLineKey(productID, selections))
	if idx < 0 {
		return false
	}

	c.Items[idx].Quantity = quantity
	c.UpdatedAt = now
	return true
}

func (c *Cart) Remove(productID uuid.UUID, selections Selections, now time.Time) bool {
	idx := c.indexOf(NewLineKey(productID, selections))
	if idx < 0 {
		return false
	}

	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.UpdatedAt = now
	return true
}

func (c *Cart) Clear(now time.Time) {
	c.Items = nil
	c.UpdatedAt = now
}

// Quantity returns the quantity of the (productID, selections) line, or 0.
func (c Cart) Quantity(productID uuid.UUID, selections Selections) int {
	if idx := c.indexOf(NewLineKey(productID, selections)); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

// Subtract takes the quantities of items off the matching lines and drops lines that reach zero.
// Lines added or grown since items were read keep the difference.
// It reports whether any line changed.
func (c *Cart) Subtract(items []CartItem, now time.Time) bool {
	changed := false
	for _, item := range items {
		idx := c.indexOf(item.Key())
		if idx < 0 {
			continue
		}

		changed = true
		if c.Items[idx].Quantity <= item.Quantity {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			continue
		}
		c.Items[idx].Quantity -= item.Quantity
	}

	if changed {
		c.UpdatedAt = now
	}
	return changed
}
